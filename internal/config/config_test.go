package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHEWSY_TEST_TOKEN", "tok-123")

	content := `
telegram:
  bot_token: ${CHEWSY_TEST_TOKEN}
catalog:
  path: ` + filepath.Join(dir, "food.json") + `
database:
  path: ` + filepath.Join(dir, "data", "chewsy.db") + `
suggest:
  travel_buffer_minutes: 15
  session_timeout_minutes: 90
managers: [42]
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.Telegram.BotToken, "env placeholder expanded")
	assert.Equal(t, 15, cfg.TravelBuffer())
	assert.Equal(t, 90*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, []int64{42}, cfg.Managers)
	assert.DirExists(t, filepath.Join(dir, "data"), "database directory created")
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: "+filepath.Join(dir, "chewsy.db")+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/food.json", cfg.Catalog.Path)
	assert.Equal(t, 10, cfg.TravelBuffer())
	assert.Equal(t, 24*time.Hour, cfg.SessionTimeout())
	assert.Zero(t, cfg.CatalogCacheTTL())
}
