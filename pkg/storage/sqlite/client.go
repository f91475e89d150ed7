// Package sqlite provides the SQLite implementation of the memory store.
//
// SQLite is a lightweight, file-based database suitable for local
// development and single-node deployments. Timestamps are stored as
// ISO-8601 TEXT so recency ordering works identically in SQL and in the
// client-side fallback sort.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/automem-labs/automem-go/pkg/storage"
)

// Client implements storage.Store using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB

	// tableName is the name of the table storing memories.
	tableName string
}

// Config contains configuration for creating a SQLite memory store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// TableName is the name of the table to use (default: "memories").
	TableName string
}

// NewClient creates a new SQLite memory store.
//
// Parameters:
//   - cfg: Configuration containing database path and table name
//
// Returns:
//   - *Client: The SQLite store instance
//   - error: Error if database connection or table creation fails
func NewClient(cfg *Config) (*Client, error) {
	if cfg.TableName == "" {
		cfg.TableName = "memories"
	}

	// Create parent directory if it doesn't exist
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	client := &Client{
		db:        db,
		tableName: cfg.TableName,
	}

	if err := client.initTable(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return client, nil
}

// initTable initializes the database table structure.
func (c *Client) initTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`, c.tableName)

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("initTable: %w", err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s(user_id)
	`, c.tableName, c.tableName)
	if _, err := c.db.ExecContext(ctx, indexQuery); err != nil {
		return fmt.Errorf("initTable: %w", err)
	}

	return nil
}

// GetMemories retrieves all memories for a user.
//
// The ordering criterion is sanitized against the whitelist before being
// interpolated, so only the six known column/direction pairs can reach the
// query text.
func (c *Client) GetMemories(ctx context.Context, userID, orderBy string) ([]storage.Memory, error) {
	orderBy = storage.SanitizeOrderBy(orderBy)

	query := fmt.Sprintf(`
		SELECT id, user_id, content, created_at, updated_at
		FROM %s
		WHERE user_id = ?
		ORDER BY %s
	`, c.tableName, orderBy)

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("GetMemories: %w", err)
	}
	defer rows.Close()

	var memories []storage.Memory
	for rows.Next() {
		var m storage.Memory
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("GetMemories: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetMemories: %w", err)
	}

	return memories, nil
}

// AddMemory persists a new memory record.
func (c *Client) AddMemory(ctx context.Context, memory storage.Memory) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query,
		memory.ID, memory.UserID, memory.Content, memory.CreatedAt, memory.UpdatedAt)
	if err != nil {
		return fmt.Errorf("AddMemory: %w", err)
	}
	return nil
}

// CountMemories returns the number of memories stored for a user.
func (c *Client) CountMemories(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ?`, c.tableName)

	var count int
	if err := c.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountMemories: %w", err)
	}
	return count, nil
}

// DeleteMemories removes all memories for a user.
func (c *Client) DeleteMemories(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, c.tableName)

	result, err := c.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("DeleteMemories: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteMemories: %w", err)
	}
	return int(affected), nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
