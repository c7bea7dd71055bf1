package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/fedspend/spendapi/domain"
)

var _ domain.BudgetRepository = (*Repository)(nil)

// dbBudgetaryResources is one aggregated row of the GTAS balances.
type dbBudgetaryResources struct {
	FiscalYear              int     `db:"fiscal_year"`
	FiscalPeriod            int     `db:"fiscal_period"`
	TotalBudgetaryResources float64 `db:"total_budgetary_resources"`
}

// TotalBudgetaryResources sums total_budgetary_resources_cpe per fiscal year and
// period, optionally restricted by filter.
func (repo *Repository) TotalBudgetaryResources(ctx context.Context, filter domain.BudgetFilter) ([]domain.BudgetaryResources, error) {
	var where []string
	var args []any
	if filter.FiscalYear != 0 {
		where = append(where, "fiscal_year = ?")
		args = append(args, filter.FiscalYear)
	}
	if filter.FiscalPeriod != 0 {
		where = append(where, "fiscal_period = ?")
		args = append(args, filter.FiscalPeriod)
	}

	query := `SELECT fiscal_year, fiscal_period, SUM(total_budgetary_resources_cpe) AS total_budgetary_resources
	          FROM gtas_sf133_balances`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY fiscal_year, fiscal_period ORDER BY fiscal_year, fiscal_period"

	var rows []*dbBudgetaryResources
	if err := repo.dbConn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("getting total budgetary resources: %w", err)
	}

	results := make([]domain.BudgetaryResources, len(rows))
	for i, row := range rows {
		results[i] = domain.BudgetaryResources{
			FiscalYear:              row.FiscalYear,
			FiscalPeriod:            row.FiscalPeriod,
			TotalBudgetaryResources: row.TotalBudgetaryResources,
		}
	}
	return results, nil
}

// InsertGTASBalance stores a GTAS SF133 balance row.
func (repo *Repository) InsertGTASBalance(ctx context.Context, balance domain.GTASBalance) error {
	query := `INSERT INTO gtas_sf133_balances (fiscal_year, fiscal_period, tas_rendering_label, total_budgetary_resources_cpe)
	          VALUES (?, ?, ?, ?)`

	_, err := repo.dbConn.ExecContext(ctx, query, balance.FiscalYear, balance.FiscalPeriod, balance.TreasuryAccountSymbol, balance.TotalBudgetaryResourcesCPE)
	if err != nil {
		return fmt.Errorf("inserting gtas balance for FY%d P%02d: %w", balance.FiscalYear, balance.FiscalPeriod, err)
	}
	return nil
}
