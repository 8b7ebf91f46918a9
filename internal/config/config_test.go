package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(map[string]string{"CELERY_BROKER_URL": "postgres://localhost:5432/app"})
	require.NoError(t, err)

	assert.Equal(t, "core", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.RequestTimeout, "enqueue requests carry no deadline by default")
	assert.Equal(t, slog.LevelInfo, cfg.Logger.Level)

	assert.Equal(t, "postgres://localhost:5432/app", cfg.Celery.BrokerURL)
	assert.Empty(t, cfg.Celery.ResultBackend)
	assert.Equal(t, 24*time.Hour, cfg.Celery.ResultExpires)
	assert.False(t, cfg.Celery.TaskAlwaysEager)
	assert.Equal(t, "default", cfg.Celery.TaskDefaultQueue)
	assert.Equal(t, 100, cfg.Celery.WorkerConcurrency)
	assert.False(t, cfg.Celery.BeatEnabled)
	assert.Equal(t, "@every 30s", cfg.Celery.BeatSchedule)
	assert.Equal(t, int32(20), cfg.DB.MaxConns)
}

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
		wantErr error
	}{
		{
			name:    "missing broker",
			environ: map[string]string{},
			wantErr: ErrBrokerURLMissing,
		},
		{
			name:    "non postgres broker",
			environ: map[string]string{"CELERY_BROKER_URL": "amqp://guest@localhost//"},
			wantErr: ErrBrokerURLInvalid,
		},
		{
			name:    "malformed broker",
			environ: map[string]string{"CELERY_BROKER_URL": "postgres://%zz"},
			wantErr: ErrBrokerURLInvalid,
		},
		{
			name: "unsupported result backend",
			environ: map[string]string{
				"CELERY_BROKER_URL":     "postgres://localhost/app",
				"CELERY_RESULT_BACKEND": "rpc://",
			},
			wantErr: ErrResultBackendInvalid,
		},
		{
			name:    "bad duration",
			environ: map[string]string{"CELERY_BROKER_URL": "postgres://localhost/app", "CELERY_RESULT_EXPIRES": "soon"},
			wantErr: ErrParse,
		},
		{
			name:    "zero concurrency",
			environ: map[string]string{"CELERY_BROKER_URL": "postgres://localhost/app", "CELERY_WORKER_CONCURRENCY": "0"},
			wantErr: ErrInvalid,
		},
		{
			name:    "eager without broker",
			environ: map[string]string{"CELERY_TASK_ALWAYS_EAGER": "true"},
		},
		{
			name: "redis result backend",
			environ: map[string]string{
				"CELERY_BROKER_URL":     "postgresql://localhost/app",
				"CELERY_RESULT_BACKEND": "redis://localhost:6379/0",
			},
		},
		{
			name: "postgres result backend",
			environ: map[string]string{
				"CELERY_BROKER_URL":     "postgres://localhost/app",
				"CELERY_RESULT_BACKEND": "postgres://localhost/results",
			},
		},
		{
			name: "memory result backend",
			environ: map[string]string{
				"CELERY_TASK_ALWAYS_EAGER": "1",
				"CELERY_RESULT_BACKEND":    "memory",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parse(tt.environ)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadSettings(t *testing.T) {
	t.Parallel()

	t.Run("flat keys", func(t *testing.T) {
		t.Parallel()

		path := writeSettings(t, `
CELERY_BROKER_URL: postgres://localhost/app
CELERY_TASK_ALWAYS_EAGER: true
CELERY_WORKER_CONCURRENCY: 8
CELERY_RESULT_EXPIRES: 1h
SENTRY_DSN:
`)
		got, err := readSettings(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"CELERY_BROKER_URL":         "postgres://localhost/app",
			"CELERY_TASK_ALWAYS_EAGER":  "true",
			"CELERY_WORKER_CONCURRENCY": "8",
			"CELERY_RESULT_EXPIRES":     "1h",
		}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		got, err := readSettings(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := readSettings(writeSettings(t, "- just\n- a list\n"))
		assert.ErrorIs(t, err, ErrSettingsFile)
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	got := merge(
		map[string]string{"A": "file", "B": "file"},
		map[string]string{"B": "env", "C": "env"},
	)
	assert.Equal(t, map[string]string{"A": "file", "B": "env", "C": "env"}, got)
}

// Load touches process environment, so these tests are not parallel.
func TestLoad(t *testing.T) {
	t.Run("environment overrides settings file", func(t *testing.T) {
		path := writeSettings(t, "CELERY_BROKER_URL: postgres://file/app\nCELERY_WORKER_CONCURRENCY: 4\n")
		t.Setenv(SettingsModuleEnv, path)
		t.Setenv("CELERY_WORKER_CONCURRENCY", "16")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://file/app", cfg.Celery.BrokerURL)
		assert.Equal(t, 16, cfg.Celery.WorkerConcurrency)
	})

	t.Run("defaults settings module", func(t *testing.T) {
		t.Setenv(SettingsModuleEnv, "")
		t.Setenv(SettingsModuleAltEnv, "")
		t.Setenv("CELERY_TASK_ALWAYS_EAGER", "true")
		t.Chdir(t.TempDir())

		_, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultSettingsModule, os.Getenv("DJANGO_SETTINGS_MODULE"))
	})

	t.Run("reads DJANGO_SETTINGS_MODULE before SETTINGS_MODULE", func(t *testing.T) {
		primary := writeSettings(t, "CELERY_BROKER_URL: postgres://primary/app\n")
		alt := writeSettings(t, "CELERY_BROKER_URL: postgres://alt/app\n")
		t.Setenv("DJANGO_SETTINGS_MODULE", primary)
		t.Setenv(SettingsModuleAltEnv, alt)
		t.Setenv("CELERY_BROKER_URL", "")
		t.Setenv("CELERY_TASK_ALWAYS_EAGER", "false")
		require.NoError(t, os.Unsetenv("CELERY_BROKER_URL"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://primary/app", cfg.Celery.BrokerURL)
	})

	t.Run("falls back to SETTINGS_MODULE", func(t *testing.T) {
		alt := writeSettings(t, "CELERY_BROKER_URL: postgres://alt/app\n")
		t.Setenv("DJANGO_SETTINGS_MODULE", "")
		t.Setenv(SettingsModuleAltEnv, alt)
		t.Setenv("CELERY_BROKER_URL", "")
		t.Setenv("CELERY_TASK_ALWAYS_EAGER", "false")
		require.NoError(t, os.Unsetenv("CELERY_BROKER_URL"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://alt/app", cfg.Celery.BrokerURL)
		assert.Equal(t, alt, os.Getenv("DJANGO_SETTINGS_MODULE"))
	})

	t.Run("fails fast without broker", func(t *testing.T) {
		t.Setenv(SettingsModuleEnv, filepath.Join(t.TempDir(), "none.yaml"))
		t.Setenv("CELERY_BROKER_URL", "")
		t.Setenv("CELERY_TASK_ALWAYS_EAGER", "false")

		_, err := Load()
		assert.ErrorIs(t, err, ErrBrokerURLMissing)
	})
}
