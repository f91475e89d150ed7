package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/automem-labs/automem-go/pkg/storage"
)

func TestSanitizeOrderByWhitelist(t *testing.T) {
	allowed := []string{
		storage.OrderCreatedAtDesc,
		storage.OrderCreatedAtAsc,
		storage.OrderUpdatedAtDesc,
		storage.OrderUpdatedAtAsc,
		storage.OrderIDDesc,
		storage.OrderIDAsc,
	}
	for _, orderBy := range allowed {
		assert.Equal(t, orderBy, storage.SanitizeOrderBy(orderBy))
	}
}

func TestSanitizeOrderByRejectsUnknown(t *testing.T) {
	rejected := []string{
		"",
		"created_at desc",
		"content DESC",
		"created_at DESC; DROP TABLE memories",
		"id DESC --",
	}
	for _, orderBy := range rejected {
		assert.Equal(t, storage.OrderCreatedAtDesc, storage.SanitizeOrderBy(orderBy))
	}
}

func TestMemorySortKey(t *testing.T) {
	dated := storage.Memory{CreatedAt: "2026-08-27T10:00:00Z"}
	assert.Equal(t, "2026-08-27T10:00:00Z", dated.SortKey())

	undated := storage.Memory{}
	assert.Equal(t, storage.EpochCreatedAt, undated.SortKey())

	// Undated records must order as oldest under string comparison.
	assert.Less(t, undated.SortKey(), dated.SortKey())
}
