// seed inserts a verified test user and a handful of tasks into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/task-api/internal/password"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

type taskSpec struct {
	title       string
	description string
	deadlineIn  time.Duration // zero means no deadline
}

var tasks = []taskSpec{
	{"Write weekly report", "Summarize progress for the team", 48 * time.Hour},
	{"Review pull requests", "Two open PRs waiting on review", 24 * time.Hour},
	{"Plan sprint", "Draft goals for the next iteration", 7 * 24 * time.Hour},
	{"Renew domain", "Expires next month", 30 * 24 * time.Hour},
	{"Read backlog", "No deadline, just keep it in mind", 0},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	if err := postgres.Migrate(ctx, dbURL, "up"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	hash, err := password.NewHasher(0).Hash(seedPassword)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	// Upsert test user, always verified with a known password
	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, is_verified)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password = EXCLUDED.password, is_verified = TRUE, updated_at = NOW()
		RETURNING id`,
		seedName, seedEmail, hash,
	).Scan(&userID)
	if err != nil {
		pool.Close()
		log.Fatalf("upsert user: %v", err)
	}

	// Only seed tasks the first time so re-runs don't pile up duplicates
	var existing int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		pool.Close()
		log.Fatalf("count tasks: %v", err)
	}

	var inserted int
	if existing == 0 {
		taskRepo := postgres.NewTaskRepository(pool)
		for _, spec := range tasks {
			task := &domain.Task{Title: spec.title, Description: spec.description, UserID: userID}
			if spec.deadlineIn > 0 {
				d := time.Now().Add(spec.deadlineIn).UTC().Truncate(time.Second)
				task.Deadline = &d
			}
			if _, err := taskRepo.Create(ctx, task); err != nil {
				pool.Close()
				log.Fatalf("insert task %q: %v", spec.title, err)
			}
			inserted++
		}
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s\n", seedEmail)
	fmt.Printf("  Password:      %s\n", seedPassword)
	fmt.Printf("  User ID:       %d\n", userID)
	fmt.Printf("  Tasks created: %d  (%d already existed)\n", inserted, existing)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 - log in as the seed user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:3000/api/users/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # => {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 - list the seeded tasks:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:3000/api/tasks -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 - create another one:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:3000/api/tasks \\")
	fmt.Println("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"title\":\"Ship it\",\"description\":\"Deploy to staging\",\"deadline\":\"2026-12-31\"}'")
}
