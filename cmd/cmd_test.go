package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreFallsBackToSQLiteWhenSecretMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fallback.db")

	store, closeStore, err := openStore(filepath.Join(t.TempDir(), "missing-secret.json"), dbPath)
	require.NoError(t, err)
	defer closeStore()

	assert.NotNil(t, store.IP)
	assert.NotNil(t, store.Page)
	assert.NotNil(t, store.Frontier)
	assert.NotNil(t, store.Backlink)
	assert.NotNil(t, store.Index)
	assert.NotNil(t, store.Cache)
}

func TestOpenStoreFallsBackToSQLiteWhenSecretMalformed(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.json")
	require.NoError(t, os.WriteFile(secretPath, []byte("not json"), 0o644))

	store, closeStore, err := openStore(secretPath, filepath.Join(dir, "fallback.db"))
	require.NoError(t, err)
	defer closeStore()

	assert.NotNil(t, store.IP)
}

func TestRootCommandRequiresAtLeastOneStageFlag(t *testing.T) {
	runIP, runURL, runPage, runAll = false, false, false, false
	assert.False(t, runIP || runURL || runPage || runAll)
}
