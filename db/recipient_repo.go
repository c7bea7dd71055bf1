package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fedspend/spendapi/domain"
)

var _ domain.RecipientRepository = (*Repository)(nil)

// dbToptierAgency represents a toptier agency as stored in the database.
type dbToptierAgency struct {
	ToptierCode  string `db:"toptier_code"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
}

// GetToptierAgency retrieves an agency by toptier code.
func (repo *Repository) GetToptierAgency(ctx context.Context, toptierCode string) (*domain.ToptierAgency, error) {
	var agency dbToptierAgency
	query := `SELECT toptier_code, name, abbreviation FROM toptier_agency WHERE toptier_code = ?`

	err := repo.dbConn.GetContext(ctx, &agency, query, toptierCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("toptier agency %s: %w", toptierCode, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting toptier agency %s: %w", toptierCode, err)
	}

	return &domain.ToptierAgency{
		ToptierCode:  agency.ToptierCode,
		Name:         agency.Name,
		Abbreviation: agency.Abbreviation,
	}, nil
}

// RecipientAmounts returns the recipient amounts of an agency for a fiscal year in
// ascending order and the number of rows with a recipient hash.
func (repo *Repository) RecipientAmounts(ctx context.Context, toptierCode string, fiscalYear int) ([]float64, int, error) {
	amounts := make([]float64, 0)
	query := `SELECT recipient_amount FROM recipient_agency
	          WHERE fiscal_year = ? AND toptier_code = ?
	          ORDER BY recipient_amount`

	err := repo.dbConn.SelectContext(ctx, &amounts, query, fiscalYear, toptierCode)
	if err != nil {
		return nil, 0, fmt.Errorf("getting recipient amounts for %s FY%d: %w", toptierCode, fiscalYear, err)
	}

	var count int
	query = `SELECT COUNT(recipient_hash) FROM recipient_agency WHERE fiscal_year = ? AND toptier_code = ?`

	err = repo.dbConn.GetContext(ctx, &count, query, fiscalYear, toptierCode)
	if err != nil {
		return nil, 0, fmt.Errorf("getting recipient count for %s FY%d: %w", toptierCode, fiscalYear, err)
	}

	return amounts, count, nil
}

// InsertToptierAgency stores an agency, replacing the name of an existing one.
func (repo *Repository) InsertToptierAgency(ctx context.Context, agency domain.ToptierAgency) error {
	query := `INSERT INTO toptier_agency (toptier_code, name, abbreviation) VALUES (?, ?, ?)
	          ON CONFLICT (toptier_code) DO UPDATE SET name = excluded.name, abbreviation = excluded.abbreviation`

	_, err := repo.dbConn.ExecContext(ctx, query, agency.ToptierCode, agency.Name, agency.Abbreviation)
	if err != nil {
		return fmt.Errorf("inserting toptier agency %s: %w", agency.ToptierCode, err)
	}
	return nil
}

// InsertRecipientAgency stores the amount an agency awarded to a recipient.
func (repo *Repository) InsertRecipientAgency(ctx context.Context, recipient domain.RecipientAgency) error {
	query := `INSERT INTO recipient_agency (fiscal_year, toptier_code, recipient_hash, recipient_amount) VALUES (?, ?, ?, ?)`

	var hash sql.NullString
	if recipient.RecipientHash != nil {
		hash = sql.NullString{String: *recipient.RecipientHash, Valid: true}
	}

	_, err := repo.dbConn.ExecContext(ctx, query, recipient.FiscalYear, recipient.ToptierCode, hash, recipient.RecipientAmount)
	if err != nil {
		return fmt.Errorf("inserting recipient for %s FY%d: %w", recipient.ToptierCode, recipient.FiscalYear, err)
	}
	return nil
}
