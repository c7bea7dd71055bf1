package spendapi

import "time"

// FirstAgencyFiscalYear is the first fiscal year with agency recipient data.
const FirstAgencyFiscalYear = 2017

// FiscalYear returns the federal fiscal year of t. Fiscal years start on October 1st
// and are named after the calendar year they end in.
func FiscalYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year() + 1
	}
	return t.Year()
}

// currentFiscalYear returns the fiscal year of the API clock.
func (api *API) currentFiscalYear() int {
	return FiscalYear(api.now())
}
