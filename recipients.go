package spendapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"

	"github.com/fedspend/spendapi/domain"
)

var toptierCodePattern = regexp.MustCompile(`^\d{3,4}$`)

type recipientsResponse struct {
	ToptierCode string                  `json:"toptier_code"`
	FiscalYear  int                     `json:"fiscal_year"`
	Results     []domain.RecipientStats `json:"results"`
	Messages    []string                `json:"messages"`
}

// recipients returns the recipient count of an agency for a fiscal year together with
// the quartiles of the amounts awarded, as drawn by a box and whisker plot.
func (api *API) recipients(r *http.Request) (any, error) {
	toptierCode := r.PathValue("toptier_code")
	if !toptierCodePattern.MatchString(toptierCode) {
		return nil, invalidParameter("toptier_code must be a 3 or 4 digit number")
	}

	messages := []string{}
	current := api.currentFiscalYear()
	fiscalYear := current
	if raw := r.URL.Query().Get("fiscal_year"); raw != "" {
		parsed, err := intParam(raw, "fiscal_year")
		if err != nil {
			return nil, err
		}
		if parsed < FirstAgencyFiscalYear || parsed > current {
			return nil, unprocessableEntity("fiscal_year must be between %d and %d", FirstAgencyFiscalYear, current)
		}
		fiscalYear = parsed
	} else {
		messages = append(messages, "Missing parameter 'fiscal_year'. Defaulted to the current fiscal year.")
	}

	if _, err := api.Repo.GetToptierAgency(r.Context(), toptierCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound("Agency with a toptier code of '%s' does not exist", toptierCode)
		}
		return nil, fmt.Errorf("getting agency %s: %w", toptierCode, err)
	}

	amounts, count, err := api.Repo.RecipientAmounts(r.Context(), toptierCode, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("getting recipients of %s: %w", toptierCode, err)
	}

	return recipientsResponse{
		ToptierCode: toptierCode,
		FiscalYear:  fiscalYear,
		Results:     []domain.RecipientStats{recipientStats(amounts, count)},
		Messages:    messages,
	}, nil
}

// recipientStats summarises ascending amounts. Percentiles are discrete: the first
// amount whose cumulative share reaches the fraction.
func recipientStats(amounts []float64, count int) domain.RecipientStats {
	stats := domain.RecipientStats{Count: count}
	if len(amounts) == 0 {
		return stats
	}
	stats.Min = &amounts[0]
	stats.Max = &amounts[len(amounts)-1]
	stats.Percentile25th = percentileDisc(amounts, 0.25)
	stats.Percentile50th = percentileDisc(amounts, 0.5)
	stats.Percentile75th = percentileDisc(amounts, 0.75)
	return stats
}

func percentileDisc(sorted []float64, fraction float64) *float64 {
	if len(sorted) == 0 {
		return nil
	}
	idx := int(math.Ceil(fraction*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	value := sorted[idx]
	return &value
}
