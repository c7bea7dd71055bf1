package db

import (
	"context"
	"reflect"
	"testing"

	"github.com/fedspend/spendapi/domain"
	"github.com/fedspend/spendapi/taxonomy"
)

func codesOf(records []domain.CodedRecord) []string {
	codes := make([]string, len(records))
	for i, record := range records {
		codes[i] = record.Code
	}
	return codes
}

func TestCodeTable_FindByPattern(t *testing.T) {
	ctx := context.Background()

	t.Run("should return an empty list when there are no codes", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := repo.CodeTable("psc").FindByPattern(ctx, taxonomy.MustRegexRule(`^A.$`))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got == nil || len(got) != 0 {
			t.Fatalf("\nwanted:\n[]\ngot:\n%v", got)
		}
	})

	t.Run("should return matching codes in code order", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCodes(t, repo, "psc", "AZ", "B", "12", "AB", "AB1", "c")
		testCodes(t, repo, "naics", "AA")

		want := []string{"AB", "AZ"}
		got, err := repo.CodeTable("psc").FindByPattern(ctx, taxonomy.MustRegexRule(`^A.$`))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(want, codesOf(got)) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, codesOf(got))
		}

		if got[0].Description != "desc AB" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "desc AB", got[0].Description)
		}
	})

	t.Run("should fail on a cancelled context", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.CodeTable("psc").FindByPattern(cancelled, taxonomy.MustRegexRule(`.`))
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}

func TestCodeTable_FindByLengthAndPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("should return codes of the given length under the prefix", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCodes(t, repo, "psc", "12", "123", "1234", "1299", "1334", "12345")

		want := []string{"1234", "1299"}
		got, err := repo.CodeTable("psc").FindByLengthAndPrefix(ctx, 4, "12")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(want, codesOf(got)) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, codesOf(got))
		}
	})

	t.Run("should compare the prefix case-sensitively and literally", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCodes(t, repo, "psc", "AB1", "ab2", "A%3", "A_4")

		got, err := repo.CodeTable("psc").FindByLengthAndPrefix(ctx, 3, "AB")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if want := []string{"AB1"}; !reflect.DeepEqual(want, codesOf(got)) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, codesOf(got))
		}

		got, err = repo.CodeTable("psc").FindByLengthAndPrefix(ctx, 3, "A%")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if want := []string{"A%3"}; !reflect.DeepEqual(want, codesOf(got)) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, codesOf(got))
		}
	})
}

func TestRepo_UpsertCodedRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("should replace the description of existing codes", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCodes(t, repo, "psc", "AB")
		err := repo.UpsertCodedRecords(ctx, "psc", []domain.CodedRecord{{Code: "AB", Description: "updated"}})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		count, err := repo.CountCodes(ctx, "psc")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if count != 1 {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 1, count)
		}

		got, err := repo.CodeTable("psc").FindByLengthAndPrefix(ctx, 2, "AB")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 1 || got[0].Description != "updated" {
			t.Fatalf("\nwanted:\nupdated\ngot:\n%v", got)
		}
	})

	t.Run("should store the codepoint length", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCodes(t, repo, "psc", "ÉÉ")

		var got int
		if err := repo.dbConn.Get(&got, "SELECT length FROM coded_record WHERE code = ?", "ÉÉ"); err != nil {
			t.Fatalf("getting length: %v", err)
		}
		if got != 2 {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 2, got)
		}
	})
}

func TestCodeTable_Walker(t *testing.T) {
	ctx := context.Background()
	repo, teardown := setupTestDB(t)
	defer teardown()

	err := repo.UpsertCodedRecords(ctx, taxonomy.PSCName, []domain.CodedRecord{
		{Code: "AB", Description: "Widget R&D"},
		{Code: "B1", Description: "Repair"},
		{Code: "12", Description: "Hardware"},
	})
	if err != nil {
		t.Fatalf("upserting codes: %v", err)
	}

	walker := taxonomy.NewWalker(taxonomy.PSC(), repo.CodeTable(taxonomy.PSCName))

	got, err := walker.Resolve(ctx, []string{"Research and Development"})
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	want := []domain.Node{{ID: "AB", Description: "Widget R&D", Ancestors: []string{"Research and Development"}}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
	}

	got, err = walker.Resolve(ctx, []string{"Product", "12"})
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("\nwanted:\n[]\ngot:\n%v", got)
	}
}
