package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

const validConfig = `{
	"crawler": {
		"parallelism": 4,
		"max_workers": {"ip_search": 2, "url_frontier": 2, "page_search": 2},
		"chunk_size": 16,
		"req_timeout": 10,
		"user_agent": "test-agent",
		"allowed_protocols": ["http", "https"],
		"retry_after_minutes": 60,
		"fail_reason_weights": {"INVALID_STATUS_CODE": 1.0, "NOT_AVAILABLE": 1.0, "NOT_TURKISH": 1.0},
		"max_document_length": 100000,
		"ports": [80, 443],
		"shuffle_chunks": false
	},
	"system": {"machine_id": 0, "total_machines": 1}
}`

func TestLoadValid(t *testing.T) {
	path := writeTestConfig(t, validConfig)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Crawler.ChunkSize != 16 {
		t.Errorf("got chunk_size %d, expected 16", c.Crawler.ChunkSize)
	}
}

func TestLoadBadChunkSize(t *testing.T) {
	body := `{"crawler": {"parallelism":1,"max_workers":{"ip_search":1,"url_frontier":1,"page_search":1},
		"chunk_size": 7, "req_timeout": 10, "user_agent": "a",
		"allowed_protocols": ["http"], "ports": [80]},
		"system": {"machine_id": 0, "total_machines": 1}}`
	path := writeTestConfig(t, body)
	if _, err := Load(path); err == nil {
		t.Error("expected error for chunk_size not dividing 256")
	}
}

func TestLoadBadMachineID(t *testing.T) {
	body := `{"crawler": {"parallelism":1,"max_workers":{"ip_search":1,"url_frontier":1,"page_search":1},
		"chunk_size": 16, "req_timeout": 10, "user_agent": "a",
		"allowed_protocols": ["http"], "ports": [80]},
		"system": {"machine_id": 2, "total_machines": 2}}`
	path := writeTestConfig(t, body)
	if _, err := Load(path); err == nil {
		t.Error("expected error for machine_id >= total_machines")
	}
}
