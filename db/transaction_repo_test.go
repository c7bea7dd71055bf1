package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fedspend/spendapi/domain"
)

func TestTransactionRepo(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }
	amount := 1250.75
	procurementID := int64(77)

	t.Run("should return ErrNotFound for unknown transactions", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.GetTransactionFPDS(ctx, 1)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})

	t.Run("should round trip nullable fields", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		want := domain.TransactionFPDS{
			TransactionID:              42,
			DetachedAwardProcurementID: &procurementID,
			PIID:                       str("W91QUZ06D0010"),
			AwardingAgencyName:         str("Department of Defense"),
			ProductOrServiceCode:       str("1234"),
			FederalActionObligation:    &amount,
		}
		if err := repo.SaveTransactionFPDS(ctx, want); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetTransactionFPDS(ctx, 42)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(&want, got) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, got)
		}
	})

	t.Run("should overwrite existing contract data", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		if err := repo.SaveTransactionFPDS(ctx, domain.TransactionFPDS{TransactionID: 7, PIID: str("old")}); err != nil {
			t.Fatalf("saving transaction: %v", err)
		}
		if err := repo.SaveTransactionFPDS(ctx, domain.TransactionFPDS{TransactionID: 7, PIID: str("new")}); err != nil {
			t.Fatalf("saving transaction: %v", err)
		}

		got, err := repo.GetTransactionFPDS(ctx, 7)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.PIID == nil || *got.PIID != "new" {
			t.Fatalf("\nwanted:\nnew\ngot:\n%v", got.PIID)
		}
		if got.FederalActionObligation != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", *got.FederalActionObligation)
		}
	})
}
