package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anzel0/New-Bot/internal/domain"
)

var envKeys = []string{
	"BOT_TOKEN", "TELEGRAM_API_ENDPOINT", "TELEGRAM_FILE_ENDPOINT", "TRANSFORM_BACKEND",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET",
	"FFMPEG_BINARY", "DOWNLOAD_DIR", "REDIS_ADDR", "REDIS_PASSWORD",
	"METRICS_ADDR", "LOG_LEVEL", "MAX_VIDEO_SIZE_MB",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, domain.BackendFFmpeg, cfg.Transform.Backend)
	assert.Equal(t, 2, cfg.Processing.MaxConcurrent)
	assert.Equal(t, int64(4000), cfg.Processing.MaxVideoSizeMB)
	assert.Equal(t, int64(4000*1024*1024), cfg.MaxVideoSizeBytes())
	assert.Equal(t, "downloads", cfg.Processing.DownloadDir)
	assert.Equal(t, 3*time.Second, cfg.Processing.ProgressInterval)
	assert.Equal(t, domain.LangSpanish, cfg.Language.Default)
	assert.Equal(t, "memory", cfg.Language.Store)
	assert.Equal(t, "@every 30m", cfg.Janitor.Schedule)
	assert.Equal(t, 6*time.Hour, cfg.Janitor.MaxAge)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
bot:
  token: from-file
  api_endpoint: http://localhost:8081/bot%s/%s
transform:
  backend: auto
  cloudinary:
    cloud_name: demo
    api_key: key
processing:
  max_concurrent: 4
  progress_interval: 5s
language:
  default: en
log:
  level: debug
`)
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
	t.Setenv("METRICS_ADDR", ":9191")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MAX_VIDEO_SIZE_MB", "50")
	t.Setenv("TELEGRAM_FILE_ENDPOINT", "http://files:8081/file/bot%s/%s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, "http://localhost:8081/bot%s/%s", cfg.Bot.APIEndpoint)
	assert.Equal(t, "http://files:8081/file/bot%s/%s", cfg.Bot.FileEndpoint)
	assert.Equal(t, domain.BackendCloudinary, cfg.Transform.Backend)
	assert.Equal(t, 4, cfg.Processing.MaxConcurrent)
	assert.Equal(t, 5*time.Second, cfg.Processing.ProgressInterval)
	assert.Equal(t, int64(50), cfg.Processing.MaxVideoSizeMB)
	assert.Equal(t, domain.LangEnglish, cfg.Language.Default)
	assert.Equal(t, "redis", cfg.Language.Store)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "missing token", yaml: "processing:\n  max_concurrent: 1\n"},
		{name: "placeholder token", yaml: "bot:\n  token: YOUR_BOT_TOKEN_HERE\n"},
		{name: "cloudinary without creds", yaml: "bot:\n  token: t\ntransform:\n  backend: cloudinary\n"},
		{name: "unknown backend", yaml: "bot:\n  token: t\ntransform:\n  backend: handbrake\n"},
		{name: "redis without addr", yaml: "bot:\n  token: t\nlanguage:\n  store: redis\n"},
		{name: "unknown store", yaml: "bot:\n  token: t\nlanguage:\n  store: etcd\n"},
		{name: "malformed yaml", yaml: "bot: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnreadablePath(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "t")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
