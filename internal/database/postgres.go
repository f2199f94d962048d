package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres connects to PostgreSQL and bootstraps the schema.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist.
func InitPostgresTables(db *sql.DB) error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			username VARCHAR(64) NOT NULL,
			email VARCHAR(120) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			about_me VARCHAR(140) NOT NULL DEFAULT '',
			last_seen TIMESTAMP NOT NULL DEFAULT NOW(),
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			CONSTRAINT users_email_key UNIQUE (email)
		)`,

		// Usernames keep their display case but are unique case-insensitively,
		// matching the LOWER(username) lookups.
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_key ON users (LOWER(username))`,

		// Posts table (roommate listings)
		`CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(40) NOT NULL,
			email VARCHAR(40) NOT NULL,
			gender VARCHAR(40) NOT NULL,
			body VARCHAR(240) NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_gender ON posts(gender)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_name ON posts(name)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}
