package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/racional/portfolio-ledger/internal/database"
)

// TestOpen_PragmasReachEveryConnection verifies that busy_timeout and
// foreign_keys are active on every pooled connection, not only the first.
// database/sql hands each statement to an arbitrary connection, so pragmas
// applied with a one-off Exec would leave the rest of the pool without a
// busy timeout and lock contention would surface as raw SQLITE_BUSY errors.
func TestOpen_PragmasReachEveryConnection(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Hold several connections at once to force the pool to open
	// distinct ones.
	conns := make([]*sql.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Failed to acquire connection %d: %v", i, err)
		}
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()

	for i, conn := range conns {
		var busyTimeout int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("Failed to read busy_timeout on connection %d: %v", i, err)
		}
		if busyTimeout != 5000 {
			t.Errorf("Connection %d: expected busy_timeout 5000, got %d", i, busyTimeout)
		}

		var foreignKeys int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("Failed to read foreign_keys on connection %d: %v", i, err)
		}
		if foreignKeys != 1 {
			t.Errorf("Connection %d: expected foreign_keys 1, got %d", i, foreignKeys)
		}
	}
}
