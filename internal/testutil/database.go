package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Each :memory: connection is a separate database; keep the pool at
	// one connection so all statements see the same data.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- User table (quoted because user is a reserved keyword)
		CREATE TABLE "user" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Stock reference data
		CREATE TABLE stock (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			symbol VARCHAR(10) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			exchange VARCHAR(50)
		);

		-- Portfolio table
		CREATE TABLE portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			base_currency VARCHAR(3) NOT NULL,
			cash_value TEXT NOT NULL DEFAULT '0',
			total_value TEXT NOT NULL DEFAULT '0',
			invested_value TEXT NOT NULL DEFAULT '0',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES "user"(id) ON DELETE CASCADE
		);

		-- Position table: one row per (portfolio, stock) pair
		CREATE TABLE portfolio_position (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			stock_id VARCHAR(36) NOT NULL,
			quantity TEXT NOT NULL DEFAULT '0',
			avg_price TEXT NOT NULL DEFAULT '0',
			last_price TEXT NOT NULL DEFAULT '0',
			currency VARCHAR(3) NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(stock_id) REFERENCES stock(id),
			CONSTRAINT unique_portfolio_stock UNIQUE (portfolio_id, stock_id)
		);

		-- Cash movement table
		CREATE TABLE cash_movement (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			type VARCHAR(20) NOT NULL,
			amount TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			happened_at DATETIME NOT NULL,
			note TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE
		);

		-- Order table (quoted because order is a reserved keyword)
		CREATE TABLE "order" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			stock_id VARCHAR(36) NOT NULL,
			side VARCHAR(4) NOT NULL,
			quantity TEXT NOT NULL,
			price TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			placed_at DATETIME NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
			filled_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(stock_id) REFERENCES stock(id)
		);

		-- Snapshot table: one row per (portfolio, as_of)
		CREATE TABLE portfolio_snapshot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			as_of DATETIME NOT NULL,
			total_value TEXT NOT NULL,
			cash_value TEXT NOT NULL,
			invested_value TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_as_of UNIQUE (portfolio_id, as_of)
		);
	`

	_, err := db.Exec(schema)
	return err
}
