// Package migrations embeds the application's goose migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
