package db

import (
	"context"
	"reflect"
	"testing"

	"github.com/fedspend/spendapi/domain"
)

func testBalances(t *testing.T, repo *Repository, balances ...domain.GTASBalance) {
	t.Helper()
	for _, balance := range balances {
		if err := repo.InsertGTASBalance(context.Background(), balance); err != nil {
			t.Fatalf("inserting gtas balance: %v", err)
		}
	}
}

func TestBudgetRepo_TotalBudgetaryResources(t *testing.T) {
	ctx := context.Background()
	balances := []domain.GTASBalance{
		{FiscalYear: 2021, FiscalPeriod: 3, TreasuryAccountSymbol: "012-1", TotalBudgetaryResourcesCPE: 10},
		{FiscalYear: 2020, FiscalPeriod: 12, TreasuryAccountSymbol: "012-1", TotalBudgetaryResourcesCPE: 5.5},
		{FiscalYear: 2020, FiscalPeriod: 12, TreasuryAccountSymbol: "012-2", TotalBudgetaryResourcesCPE: 4.5},
		{FiscalYear: 2021, FiscalPeriod: 2, TreasuryAccountSymbol: "012-1", TotalBudgetaryResourcesCPE: 1},
		{FiscalYear: 2021, FiscalPeriod: 3, TreasuryAccountSymbol: "012-2", TotalBudgetaryResourcesCPE: 2},
	}

	t.Run("should return an empty list when there are no balances", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := repo.TotalBudgetaryResources(ctx, domain.BudgetFilter{})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 0 {
			t.Fatalf("\nwanted:\n[]\ngot:\n%v", got)
		}
	})

	t.Run("should sum per year and period in order", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		testBalances(t, repo, balances...)

		want := []domain.BudgetaryResources{
			{FiscalYear: 2020, FiscalPeriod: 12, TotalBudgetaryResources: 10},
			{FiscalYear: 2021, FiscalPeriod: 2, TotalBudgetaryResources: 1},
			{FiscalYear: 2021, FiscalPeriod: 3, TotalBudgetaryResources: 12},
		}
		got, err := repo.TotalBudgetaryResources(ctx, domain.BudgetFilter{})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should filter by year and period", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		testBalances(t, repo, balances...)

		got, err := repo.TotalBudgetaryResources(ctx, domain.BudgetFilter{FiscalYear: 2021})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 2 {
			t.Fatalf("\nwanted:\n2 rows\ngot:\n%v", got)
		}

		want := []domain.BudgetaryResources{{FiscalYear: 2021, FiscalPeriod: 3, TotalBudgetaryResources: 12}}
		got, err = repo.TotalBudgetaryResources(ctx, domain.BudgetFilter{FiscalYear: 2021, FiscalPeriod: 3})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})
}
