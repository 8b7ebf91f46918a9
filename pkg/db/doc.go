// Package db manages the PostgreSQL pool shared by the task queue, the
// Postgres result store and goose migrations.
//
//	pool, err := db.Connect(ctx, cfg.Celery.BrokerURL, cfg.DB)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
//		return err
//	}
package db
