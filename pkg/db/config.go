package db

import "time"

// Config tunes the connection pool. The connection URL itself comes from
// the broker setting and is passed to Connect separately.
type Config struct {
	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"2s"`

	// River workers hold connections while they poll, keep this above
	// the worker concurrency of busy queues.
	MaxConns int32 `env:"DATABASE_MAX_CONNS" envDefault:"20"`
	MinConns int32 `env:"DATABASE_MIN_CONNS" envDefault:"2"`
}
