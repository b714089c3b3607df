// Package cassandra is the primary repository backend, grounded on the
// teacher's cassandra package: a gocql session, a templated schema, and
// retryable commits.
package cassandra

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// ClusterOptions configures the gocql cluster connection; field names
// mirror the teacher's WalkerConfig.Cassandra block.
type ClusterOptions struct {
	Hosts             []string
	Keyspace          string
	ReplicationFactor int
	Timeout           time.Duration
	NumConns          int
}

// NewCluster builds a *gocql.ClusterConfig from opts, as the teacher's
// cassandra.GetConfig did from the package-level Config.
func NewCluster(opts ClusterOptions) *gocql.ClusterConfig {
	cfg := gocql.NewCluster(opts.Hosts...)
	cfg.Keyspace = opts.Keyspace
	cfg.Timeout = opts.Timeout
	if opts.NumConns > 0 {
		cfg.NumConns = opts.NumConns
	}
	return cfg
}

// CreateSchema creates the keyspace and all tables for opts.Keyspace. It
// requires the keyspace not already exist.
func CreateSchema(opts ClusterOptions) error {
	bootstrap := NewCluster(opts)
	bootstrap.Keyspace = ""
	session, err := bootstrap.CreateSession()
	if err != nil {
		return fmt.Errorf("cassandra: connect to create schema: %w", err)
	}
	defer session.Close()

	schema, err := GetSchema(opts.Keyspace, opts.ReplicationFactor)
	if err != nil {
		return err
	}
	for _, stmt := range statements(schema) {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("cassandra: failed to create schema: %w\nstatement:\n%v", err, stmt)
		}
	}
	return nil
}

// Store wraps a gocql.Session with the per-entity repositories.
type Store struct {
	Session *gocql.Session
}

// NewStore opens a session against opts.
func NewStore(opts ClusterOptions) (*Store, error) {
	cluster := NewCluster(opts)
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("cassandra: create session: %w", err)
	}
	return &Store{Session: session}, nil
}

// Close releases the underlying session.
func (s *Store) Close() {
	s.Session.Close()
}

// isRecoverable classifies gocql errors that WithRetry should retry on:
// unavailability and timeouts, not e.g. query syntax errors.
func isRecoverable(err error) bool {
	if err == nil {
		return false
	}
	switch err.(type) {
	case *gocql.RequestErrUnavailable, *gocql.RequestErrWriteTimeout, *gocql.RequestErrReadTimeout:
		return true
	}
	return err == gocql.ErrNoConnections || err == gocql.ErrConnectionClosed || err == gocql.ErrTimeoutNoResponse
}
