package config

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/taskforge/pkg/db"
	"github.com/dmitrymomot/taskforge/pkg/logger"
	"github.com/dmitrymomot/taskforge/pkg/redis"
)

const (
	// SettingsModuleEnv names the settings file read before the environment.
	SettingsModuleEnv = "DJANGO_SETTINGS_MODULE"

	// SettingsModuleAltEnv is read when SettingsModuleEnv is empty.
	SettingsModuleAltEnv = "SETTINGS_MODULE"

	DefaultSettingsModule = "config/settings.yaml"
)

var (
	ErrBrokerURLMissing     = errors.New("config: CELERY_BROKER_URL is required")
	ErrBrokerURLInvalid     = errors.New("config: CELERY_BROKER_URL must be a postgres:// URL")
	ErrResultBackendInvalid = errors.New("config: unsupported CELERY_RESULT_BACKEND")
	ErrSettingsFile         = errors.New("config: failed to read settings file")
	ErrParse                = errors.New("config: failed to parse environment")
	ErrInvalid              = errors.New("config: invalid value")
)

// Celery holds the task-queue settings. Every key lives under CELERY_.
type Celery struct {
	BrokerURL         string        `env:"BROKER_URL" validate:"required_unless=TaskAlwaysEager true,omitempty,postgres_url"`
	ResultBackend     string        `env:"RESULT_BACKEND" validate:"result_backend"`
	ResultExpires     time.Duration `env:"RESULT_EXPIRES" envDefault:"24h"`
	TaskAlwaysEager   bool          `env:"TASK_ALWAYS_EAGER" envDefault:"false"`
	TaskDefaultQueue  string        `env:"TASK_DEFAULT_QUEUE" envDefault:"default" validate:"required"`
	TaskMaxAttempts   int           `env:"TASK_MAX_ATTEMPTS" envDefault:"0" validate:"gte=0"`
	WorkerConcurrency int           `env:"WORKER_CONCURRENCY" envDefault:"100" validate:"gte=1"`
	BeatEnabled       bool          `env:"BEAT_ENABLED" envDefault:"false"`
	BeatSchedule      string        `env:"BEAT_SCHEDULE" envDefault:"@every 30s" validate:"required"`

	// WorkerEmbedded makes the server process work tasks as well.
	WorkerEmbedded bool `env:"WORKER_EMBEDDED" envDefault:"false"`
}

type Config struct {
	AppName           string        `env:"APP_NAME" envDefault:"core"`
	HTTPAddress       string        `env:"HTTP_ADDRESS" envDefault:":8080" validate:"required"`
	WorkerHTTPAddress string        `env:"WORKER_HTTP_ADDRESS" envDefault:":8081" validate:"required"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"`

	Celery Celery `envPrefix:"CELERY_"`
	Logger logger.Config
	DB     db.Config
}

// Load reads the settings file named by DJANGO_SETTINGS_MODULE, overlays the
// process environment and validates the result. When DJANGO_SETTINGS_MODULE
// is empty it is set from SETTINGS_MODULE, or to config/settings.yaml; a
// missing file is not an error.
func Load() (Config, error) {
	path := os.Getenv(SettingsModuleEnv)
	if path == "" {
		path = cmp.Or(os.Getenv(SettingsModuleAltEnv), DefaultSettingsModule)
		if err := os.Setenv(SettingsModuleEnv, path); err != nil {
			return Config{}, fmt.Errorf("config: set %s: %w", SettingsModuleEnv, err)
		}
	}

	settings, err := readSettings(path)
	if err != nil {
		return Config{}, err
	}
	return parse(merge(settings, env.ToMap(os.Environ())))
}

func parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings against their validate tags.
func (c Config) Validate() error {
	err := validate.Struct(c)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.StructNamespace() {
	case "Config.Celery.BrokerURL":
		if fe.Tag() == "required_unless" {
			return ErrBrokerURLMissing
		}
		return fmt.Errorf("%w: %q", ErrBrokerURLInvalid, fe.Value())
	case "Config.Celery.ResultBackend":
		return fmt.Errorf("%w: %q", ErrResultBackendInvalid, fe.Value())
	}
	return fmt.Errorf("%w: %s failed on %s", ErrInvalid, fe.Namespace(), fe.Tag())
}

// BackendMemory selects the in-process result backend.
const BackendMemory = "memory"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("postgres_url", func(fl validator.FieldLevel) bool {
		return isPostgresURL(fl.Field().String())
	})
	_ = v.RegisterValidation("result_backend", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s == BackendMemory || redis.IsURL(s) || isPostgresURL(s)
	})
	return v
}

func isPostgresURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql")
}

// readSettings loads a flat KEY: value YAML file into a string map.
func readSettings(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrSettingsFile, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrSettingsFile, fmt.Errorf("%s: %w", path, err))
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

// merge returns base with overlay applied on top.
func merge(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}
