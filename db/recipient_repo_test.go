package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fedspend/spendapi/domain"
)

func TestRecipientRepo_GetToptierAgency(t *testing.T) {
	ctx := context.Background()

	t.Run("should return ErrNotFound for unknown agencies", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.GetToptierAgency(ctx, "999")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})

	t.Run("should return a stored agency", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		want := domain.ToptierAgency{ToptierCode: "012", Name: "Department of Agriculture", Abbreviation: "USDA"}
		if err := repo.InsertToptierAgency(ctx, want); err != nil {
			t.Fatalf("inserting agency: %v", err)
		}

		got, err := repo.GetToptierAgency(ctx, "012")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(&want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})
}

func TestRecipientRepo_RecipientAmounts(t *testing.T) {
	ctx := context.Background()
	hash := func(s string) *string { return &s }

	repo, teardown := setupTestDB(t)
	defer teardown()

	for _, code := range []string{"012", "097"} {
		if err := repo.InsertToptierAgency(ctx, domain.ToptierAgency{ToptierCode: code, Name: code}); err != nil {
			t.Fatalf("inserting agency: %v", err)
		}
	}

	recipients := []domain.RecipientAgency{
		{FiscalYear: 2021, ToptierCode: "012", RecipientHash: hash("a"), RecipientAmount: 30},
		{FiscalYear: 2021, ToptierCode: "012", RecipientHash: hash("b"), RecipientAmount: 10},
		{FiscalYear: 2021, ToptierCode: "012", RecipientHash: nil, RecipientAmount: 20},
		{FiscalYear: 2020, ToptierCode: "012", RecipientHash: hash("c"), RecipientAmount: 99},
		{FiscalYear: 2021, ToptierCode: "097", RecipientHash: hash("d"), RecipientAmount: 1},
	}
	for _, recipient := range recipients {
		if err := repo.InsertRecipientAgency(ctx, recipient); err != nil {
			t.Fatalf("inserting recipient: %v", err)
		}
	}

	t.Run("should return sorted amounts and the hash count", func(t *testing.T) {
		amounts, count, err := repo.RecipientAmounts(ctx, "012", 2021)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if want := []float64{10, 20, 30}; !reflect.DeepEqual(want, amounts) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, amounts)
		}
		if count != 2 {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 2, count)
		}
	})

	t.Run("should return nothing for a year without recipients", func(t *testing.T) {
		amounts, count, err := repo.RecipientAmounts(ctx, "097", 2019)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(amounts) != 0 || count != 0 {
			t.Fatalf("\nwanted:\nno amounts\ngot:\n%v (%d)", amounts, count)
		}
	})

	t.Run("should reject recipients of unknown agencies", func(t *testing.T) {
		err := repo.InsertRecipientAgency(ctx, domain.RecipientAgency{FiscalYear: 2021, ToptierCode: "555"})
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
