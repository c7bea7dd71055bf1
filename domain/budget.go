package domain

import "context"

// BudgetRepository defines the queries over GTAS SF133 balances.
type BudgetRepository interface {
	// TotalBudgetaryResources sums total budgetary resources per fiscal year and period,
	// ordered by fiscal year then fiscal period.
	TotalBudgetaryResources(ctx context.Context, filter BudgetFilter) ([]BudgetaryResources, error)

	// InsertGTASBalance stores a single GTAS balance row.
	InsertGTASBalance(ctx context.Context, balance GTASBalance) error
}

// BudgetFilter narrows a budgetary resources query. Zero values mean "no filter".
type BudgetFilter struct {
	FiscalYear   int
	FiscalPeriod int
}

// GTASBalance is one GTAS SF133 balance line for a treasury account.
type GTASBalance struct {
	FiscalYear                 int
	FiscalPeriod               int
	TreasuryAccountSymbol      string
	TotalBudgetaryResourcesCPE float64
}

// BudgetaryResources is the aggregated total for a fiscal year and period.
type BudgetaryResources struct {
	FiscalYear              int     `json:"fiscal_year"`
	FiscalPeriod            int     `json:"fiscal_period"`
	TotalBudgetaryResources float64 `json:"total_budgetary_resources"`
}
