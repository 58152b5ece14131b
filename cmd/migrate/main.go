package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"agentdesk.io/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("AGENTDESK_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", "ops/migrations/sql", "Path to SQL migrations")
		seedsPath      = flag.String("seeds", "ops/migrations/seeds", "Path to SQL seeds")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or AGENTDESK_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|status]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	runner := migrate.NewRunner(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = runner.Up(ctx)
	case "down":
		err = runner.Down(ctx)
	case "seed":
		err = runner.Seed(ctx)
	case "status":
		var history []string
		history, err = runner.Status(ctx)
		if err == nil {
			for _, name := range history {
				fmt.Println(name)
			}
		}
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
