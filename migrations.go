package oilbot

import "embed"

// MigrationsFS holds the SQL migrations for the Postgres session store.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
