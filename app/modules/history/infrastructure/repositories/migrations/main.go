// Package historymigrations holds the schema migrations for the history module.
package historymigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
