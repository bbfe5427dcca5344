package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chewsy/internal/config"
)

func TestSnapshotWritesConsistentCopy(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewDB(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.RecordEvent(ctx, 100, EventSuggested, "Casa Nueva"))

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	svc := NewBackupService(db, config.BackupConfig{
		Enabled:     true,
		StoragePath: filepath.Join(dir, "backups"),
	}, &logger)

	require.NoError(t, svc.Snapshot(ctx))

	files, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	// The snapshot is itself a usable journal.
	copyDB, err := NewDB(filepath.Join(dir, "backups", files[0].Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = copyDB.Close() })

	counts, err := copyDB.EventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[EventSuggested])
}
