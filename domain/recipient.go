package domain

import "context"

// RecipientRepository defines the queries backing the agency recipient statistics.
type RecipientRepository interface {
	// GetToptierAgency returns the agency with the given toptier code, or ErrNotFound.
	GetToptierAgency(ctx context.Context, toptierCode string) (*ToptierAgency, error)

	// RecipientAmounts returns the recipient amounts of an agency for a fiscal year in
	// ascending order, together with the number of rows carrying a recipient hash.
	RecipientAmounts(ctx context.Context, toptierCode string, fiscalYear int) ([]float64, int, error)

	// InsertToptierAgency stores an agency.
	InsertToptierAgency(ctx context.Context, agency ToptierAgency) error

	// InsertRecipientAgency stores the total awarded to one recipient by one agency.
	InsertRecipientAgency(ctx context.Context, recipient RecipientAgency) error
}

// ToptierAgency is a top level federal agency.
type ToptierAgency struct {
	ToptierCode  string
	Name         string
	Abbreviation string
}

// RecipientAgency is the amount an agency awarded to a recipient in a fiscal year.
type RecipientAgency struct {
	FiscalYear      int
	ToptierCode     string
	RecipientHash   *string
	RecipientAmount float64
}

// RecipientStats summarises the distribution of recipient amounts of an agency.
// Amount fields are nil when the agency has no recipients for the fiscal year.
type RecipientStats struct {
	Count          int      `json:"count"`
	Max            *float64 `json:"max"`
	Min            *float64 `json:"min"`
	Percentile25th *float64 `json:"25th_percentile"`
	Percentile50th *float64 `json:"50th_percentile"`
	Percentile75th *float64 `json:"75th_percentile"`
}
