// Command reset wipes the configured storage and recreates an empty schema.
// The pool is deployed again on the next start of the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/lotto/internal/config"
	"github.com/osse101/lotto/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch cfg.StorageDriver {
	case config.StorageDriverBolt:
		resetBolt(cfg.BoltPath)
	case config.StorageDriverPostgres:
		resetPostgres(cfg)
	default:
		log.Fatalf("Unknown storage driver %q", cfg.StorageDriver)
	}

	log.Println("Storage reset complete")
}

func resetBolt(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove %s: %v", path, err)
	}
	log.Printf("Removed %s", path)
}

func resetPostgres(cfg *config.Config) {
	ctx := context.Background()

	// connect to the maintenance database to manage the target one
	serverConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)

	serverPool, err := database.NewPool(serverConnString, 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL server: %v", err)
	}
	defer serverPool.Close()

	dbName := pgx.Identifier{cfg.DBName}.Sanitize()

	log.Printf("Terminating existing connections to database %s...", cfg.DBName)
	if _, err := serverPool.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`, cfg.DBName); err != nil {
		log.Printf("Warning: failed to terminate connections: %v", err)
	}

	if _, err := serverPool.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	if _, err := serverPool.Exec(ctx, "CREATE DATABASE "+dbName); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	log.Printf("Database %s recreated", cfg.DBName)

	pool, err := database.NewPool(cfg.GetDBConnString(), 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBName, err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	log.Println("Migrations applied")
}
