package history

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndAggregate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Casa Nueva"))
	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Casa Nueva"))
	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Union Street Diner"))
	require.NoError(t, db.RecordEvent(ctx, 100, EventTerminated, ""))
	require.NoError(t, db.RecordEvent(ctx, 200, EventRestarted, ""))

	top, err := db.TopSuggested(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, RestaurantCount{"Casa Nueva", 2}, top[0])
	assert.Equal(t, RestaurantCount{"Union Street Diner", 1}, top[1])

	counts, err := db.EventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[EventSuggested])
	assert.Equal(t, int64(1), counts[EventTerminated])
	assert.Equal(t, int64(1), counts[EventRestarted])
}

func TestEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Casa Nueva"))
	require.NoError(t, db.RecordEvent(ctx, 100, EventTerminated, ""))

	entries, err := db.Entries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EventSuggested, entries[0].Event)
	assert.Equal(t, "Casa Nueva", entries[0].Restaurant)
	assert.Equal(t, int64(100), entries[1].ChatID)
	assert.False(t, entries[0].CreatedAt.IsZero())

	limited, err := db.Entries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestExportXLSX(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Casa Nueva"))

	var buf bytes.Buffer
	require.NoError(t, db.ExportXLSX(ctx, &buf))
	// XLSX containers are zip archives.
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2])
}
