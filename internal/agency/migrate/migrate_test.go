package migrate

import (
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSteps_SortedAndVersioned(t *testing.T) {
	steps, err := Steps()
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if len(steps) < 2 {
		t.Fatalf("steps = %d, want >= 2", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if steps[i-1].Version >= steps[i].Version {
			t.Errorf("steps out of order: %d before %d", steps[i-1].Version, steps[i].Version)
		}
	}
}

func TestRun_CreatesAgencies(t *testing.T) {
	db := openTestDB(t)
	if err := NewRunner(db).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, table := range []string{"agencies", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db)
	if err := r.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	pending, err := r.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}
	steps, _ := Steps()
	cur, _ := r.Current()
	if cur != steps[len(steps)-1].Version {
		t.Errorf("current = %d, want %d", cur, steps[len(steps)-1].Version)
	}
}
