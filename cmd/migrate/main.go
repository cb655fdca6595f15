// migrate applies the embedded schema migrations.
// Run: go run ./cmd/migrate [up|down|status|redo|reset|version]
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ErlanBelekov/task-api/internal/infrastructure/postgres"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, dbURL, command); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
