package db

import (
	"context"
	"os"
	"testing"

	"github.com/fedspend/spendapi/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewRepository(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func testCodes(t *testing.T, repo *Repository, taxonomy string, codes ...string) {
	t.Helper()

	records := make([]domain.CodedRecord, len(codes))
	for i, code := range codes {
		records[i] = domain.CodedRecord{Code: code, Description: "desc " + code}
	}

	if err := repo.UpsertCodedRecords(context.Background(), taxonomy, records); err != nil {
		t.Fatalf("upserting codes: %v", err)
	}
}

func TestNew(t *testing.T) {
	t.Run("should apply all migrations", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		want := int64(2)
		got, err := Version(repo.dbConn)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got != want {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", want, got)
		}

		if err := repo.Ping(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
	})

	t.Run("should open the database in WAL mode with foreign keys", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		var journalMode string
		if err := repo.dbConn.Get(&journalMode, "PRAGMA journal_mode"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if journalMode != "wal" {
			t.Fatalf("\nwanted:\nwal\ngot:\n%s", journalMode)
		}

		var foreignKeys int
		if err := repo.dbConn.Get(&foreignKeys, "PRAGMA foreign_keys"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if foreignKeys != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", foreignKeys)
		}

		var busyTimeout int
		if err := repo.dbConn.Get(&busyTimeout, "PRAGMA busy_timeout"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if busyTimeout != 5000 {
			t.Fatalf("\nwanted:\n5000\ngot:\n%d", busyTimeout)
		}
	})

	t.Run("should be idempotent on an existing database", func(t *testing.T) {
		path := t.TempDir() + "/existing.db"

		first, err := New(path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		first.Close()

		second, err := New(path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		second.Close()
	})
}
