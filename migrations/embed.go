// Package migrations embeds the goose SQL migrations for the rideshare schema.
// Up applies them; cmd/api calls it when AUTO_MIGRATE is set and the
// integration tests call it from TestMain.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
