package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	gamemigrations "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories/migrations"
	historymigrations "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories/migrations"
	"github.com/oh-hell-club/kachuful-bot/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	migrators := map[string]*migrate.Migrator{
		"game":    migrate.NewMigrator(db, gamemigrations.Migrations),
		"history": migrate.NewMigrator(db, historymigrations.Migrations),
	}

	cliApp := &cli.App{
		Name: "bun",
		Commands: []*cli.Command{
			newMigrateCommand(migrators),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// moduleOrder returns the module names sorted, so multi-module passes run in
// a stable order.
func moduleOrder(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// migratorFromArgs resolves the module named by the first CLI argument.
func migratorFromArgs(c *cli.Context, migrators map[string]*migrate.Migrator) (string, *migrate.Migrator, error) {
	moduleName := c.Args().First()
	migrator, ok := migrators[moduleName]
	if !ok {
		return "", nil, fmt.Errorf("unknown module %q (have: %s)", moduleName, strings.Join(moduleOrder(migrators), ", "))
	}
	return moduleName, migrator, nil
}

func newMigrateCommand(migrators map[string]*migrate.Migrator) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder(migrators) {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrators[moduleName].Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder(migrators) {
						group, err := migrators[moduleName].Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations for module: %s\n", moduleName)
							continue
						}
						fmt.Printf("Migrated module %s to %s\n", moduleName, group)
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder(migrators) {
						group, err := migrators[moduleName].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
							continue
						}
						fmt.Printf("Rolled back module %s to %s\n", moduleName, group)
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration for a module",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					moduleName, migrator, err := migratorFromArgs(c, migrators)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations for a module",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					moduleName, migrator, err := migratorFromArgs(c, migrators)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder(migrators) {
						ms, err := migrators[moduleName].MigrationsWithStatus(c.Context)
						if err != nil {
							return fmt.Errorf("status %s: %w", moduleName, err)
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}
