// Package config loads process settings.
//
// Values come from a flat YAML settings file (path in DJANGO_SETTINGS_MODULE,
// then SETTINGS_MODULE, default config/settings.yaml) overlaid by the
// environment. Task-queue settings use the CELERY_ prefix:
//
//	CELERY_BROKER_URL=postgres://localhost:5432/app
//	CELERY_RESULT_BACKEND=redis://localhost:6379/0
//	CELERY_TASK_ALWAYS_EAGER=false
package config
