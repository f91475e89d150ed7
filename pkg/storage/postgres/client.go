// Package postgres provides the PostgreSQL implementation of the memory store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/automem-labs/automem-go/pkg/storage"
)

// Client implements storage.Store using PostgreSQL as the backend.
type Client struct {
	db        *sql.DB
	tableName string
}

// Config contains PostgreSQL configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	TableName string
	SSLMode   string
}

// NewClient creates a new PostgreSQL memory store.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.TableName == "" {
		cfg.TableName = "memories"
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
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
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			created_at VARCHAR(64) NOT NULL,
			updated_at VARCHAR(64) NOT NULL
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

// GetMemories retrieves all memories for a user, ordered by a whitelisted
// criterion.
func (c *Client) GetMemories(ctx context.Context, userID, orderBy string) ([]storage.Memory, error) {
	orderBy = storage.SanitizeOrderBy(orderBy)

	query := fmt.Sprintf(`
		SELECT id, user_id, content, created_at, updated_at
		FROM %s
		WHERE user_id = $1
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
		VALUES ($1, $2, $3, $4, $5)
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
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, c.tableName)

	var count int
	if err := c.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountMemories: %w", err)
	}
	return count, nil
}

// DeleteMemories removes all memories for a user.
func (c *Client) DeleteMemories(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, c.tableName)

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
