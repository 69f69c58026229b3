package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATA_DIR", "/tmp/invoicer-test")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("APP_LOCALE", "")
	t.Setenv("SEARCH_DEBOUNCE_MS", "")
	t.Setenv("BACKUP_DIR", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, filepath.Join("/tmp/invoicer-test", "invoicer.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join("/tmp/invoicer-test", "backups"), cfg.BackupDir)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SEARCH_DEBOUNCE_MS", "50")
	t.Setenv("LLM_PROVIDER", "claude")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "claude", cfg.LLMProvider)
	assert.Equal(t, 50*time.Millisecond, cfg.SearchDebounce)
}
