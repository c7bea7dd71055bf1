package spendapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fedspend/spendapi/domain"
)

type totalBudgetaryResourcesResponse struct {
	Results  []domain.BudgetaryResources `json:"results"`
	Messages []string                    `json:"messages"`
}

// totalBudgetaryResources sums GTAS total budgetary resources per fiscal year and period.
func (api *API) totalBudgetaryResources(r *http.Request) (any, error) {
	query := r.URL.Query()

	fiscalYear, err := intParam(query.Get("fiscal_year"), "fiscal_year")
	if err != nil {
		return nil, err
	}
	fiscalPeriod, err := intParam(query.Get("fiscal_period"), "fiscal_period")
	if err != nil {
		return nil, err
	}

	filter := domain.BudgetFilter{FiscalYear: fiscalYear}
	if query.Get("fiscal_period") != "" {
		if query.Get("fiscal_year") == "" {
			return nil, invalidParameter("fiscal_period was provided without any fiscal_year.")
		}
		if fiscalPeriod < 2 || fiscalPeriod > 12 {
			return nil, unprocessableEntity("fiscal_period must be in the range 2-12")
		}
		filter.FiscalPeriod = fiscalPeriod
	}

	results, err := api.Repo.TotalBudgetaryResources(r.Context(), filter)
	if err != nil {
		return nil, fmt.Errorf("getting total budgetary resources: %w", err)
	}
	if results == nil {
		results = []domain.BudgetaryResources{}
	}
	return totalBudgetaryResourcesResponse{Results: results, Messages: []string{}}, nil
}

// intParam parses an optional integer query parameter, returning 0 when it is absent.
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParameter("%s must be an integer", name)
	}
	return value, nil
}
