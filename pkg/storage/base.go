// Package storage provides interfaces and types for memory storage backends.
//
// It defines the Store interface that all backends must satisfy, the Memory
// record shape, and the ordering whitelist shared by every SQL backend.
package storage

import "context"

// Memory represents a persisted memory record owned by one user.
//
// The store is the sole owner and source of truth for memories; callers
// never cache records beyond a single call's lifetime (an optional TTL
// read cache sits in front of the store, but is invalidated on write).
type Memory struct {
	// ID is the opaque identifier assigned when the memory is stored.
	ID string

	// UserID identifies the user who owns this memory.
	UserID string

	// Content is the text body of the memory.
	Content string

	// CreatedAt is an ISO-8601 timestamp string. When empty, the record
	// sorts as oldest (epoch start) for recency ordering.
	CreatedAt string

	// UpdatedAt is an ISO-8601 timestamp string of the last update.
	UpdatedAt string
}

// EpochCreatedAt is the sort key substituted for memories with no
// CreatedAt value, so undated memories always order as oldest.
const EpochCreatedAt = "1970-01-01T00:00:00"

// SortKey returns the recency sort key for the memory. RFC 3339 / ISO-8601
// strings order correctly under plain string comparison, so this is usable
// directly as a lexicographic key.
func (m Memory) SortKey() string {
	if m.CreatedAt == "" {
		return EpochCreatedAt
	}
	return m.CreatedAt
}

// Ordering criteria accepted by Store.GetMemories. Anything outside this
// whitelist is replaced by OrderCreatedAtDesc before it reaches a backend,
// so an order-by string can never be concatenated into a query unchecked.
const (
	OrderCreatedAtDesc = "created_at DESC"
	OrderCreatedAtAsc  = "created_at ASC"
	OrderUpdatedAtDesc = "updated_at DESC"
	OrderUpdatedAtAsc  = "updated_at ASC"
	OrderIDDesc        = "id DESC"
	OrderIDAsc         = "id ASC"
)

var allowedOrderings = map[string]struct{}{
	OrderCreatedAtDesc: {},
	OrderCreatedAtAsc:  {},
	OrderUpdatedAtDesc: {},
	OrderUpdatedAtAsc:  {},
	OrderIDDesc:        {},
	OrderIDAsc:         {},
}

// SanitizeOrderBy validates an ordering criterion against the whitelist.
//
// Returns the criterion unchanged when it is whitelisted, otherwise the
// safe default OrderCreatedAtDesc.
func SanitizeOrderBy(orderBy string) string {
	if _, ok := allowedOrderings[orderBy]; ok {
		return orderBy
	}
	return OrderCreatedAtDesc
}

// Store defines the interface for memory storage backends.
//
// Implementations exist for SQLite, PostgreSQL, and MySQL. All methods are
// safe for concurrent use.
type Store interface {
	// GetMemories retrieves all memories for a user.
	//
	// orderBy must be one of the Order* constants; implementations pass it
	// through SanitizeOrderBy before building the query.
	GetMemories(ctx context.Context, userID, orderBy string) ([]Memory, error)

	// AddMemory persists a new memory record.
	//
	// The caller supplies ID, Content, and timestamps; implementations
	// store the record verbatim.
	AddMemory(ctx context.Context, memory Memory) error

	// CountMemories returns the number of memories stored for a user.
	CountMemories(ctx context.Context, userID string) (int, error)

	// DeleteMemories removes all memories for a user and returns how many
	// were deleted.
	DeleteMemories(ctx context.Context, userID string) (int, error)

	// Close releases the underlying connection.
	Close() error
}
