// Package adapter provides the store collaborators framesync's writer
// consumes: session handling on database/sql, the schema catalog reader,
// and the bulk load transport.
//
// Concrete adapters (pkg/adapters/*) register themselves here; the
// writer itself only ever sees the Session interface, so tests drive it
// with sqlmock.
package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/framesync/pkg/dialect"
)

// Session is the collaborator handle every round trip runs on. It is
// satisfied by *sql.DB, *sql.Conn, and *sql.Tx; the writer pins one
// *sql.Conn per write call so session-local staging tables stay visible
// across round trips.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Config holds connection settings for an adapter.
type Config struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Adapter is the connected-store collaborator. Lifecycle and
// authentication live here, outside the write path.
type Adapter interface {
	// Connect establishes the connection pool.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the pool.
	Close() error

	// Session pins a single connection for one write call's sequence of
	// round trips. The caller must Close the returned conn.
	Session(ctx context.Context) (*sql.Conn, error)

	// Dialect returns the store's SQL dialect.
	Dialect() *dialect.Dialect
}

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed it in concrete implementations for standard Close and Session.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Session pins one connection from the pool.
func (b *BaseSQLAdapter) Session(ctx context.Context) (*sql.Conn, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	conn, err := b.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	return conn, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}
