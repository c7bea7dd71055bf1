package db

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/fedspend/spendapi/domain"
)

var _ domain.NodeRepository = (*CodeTable)(nil)
var _ domain.TaxonomyRepository = (*Repository)(nil)

// dbCodedRecord represents a taxonomy code as stored in the database.
type dbCodedRecord struct {
	Taxonomy    string `db:"taxonomy"`    // Taxonomy the code belongs to, e.g. "psc".
	Code        string `db:"code"`        // The code itself.
	Description string `db:"description"` // Human readable description of the code.
	Length      int    `db:"length"`      // Codepoint length of the code.
}

// toDomainCodedRecord converts a dbCodedRecord to a domain.CodedRecord.
func toDomainCodedRecord(dbRecord *dbCodedRecord) domain.CodedRecord {
	return domain.CodedRecord{
		Code:        dbRecord.Code,
		Description: dbRecord.Description,
	}
}

// CodeTable is the view of the coded_record table restricted to a single taxonomy.
// It implements domain.NodeRepository.
type CodeTable struct {
	repo     *Repository
	taxonomy string
}

// CodeTable returns the codes of taxonomy as a domain.NodeRepository.
func (repo *Repository) CodeTable(taxonomy string) domain.NodeRepository {
	return &CodeTable{repo: repo, taxonomy: taxonomy}
}

// FindByPattern returns the codes of the taxonomy matching rule, ordered by code.
// Rules are arbitrary predicates, so rows are streamed and matched in Go.
func (table *CodeTable) FindByPattern(ctx context.Context, rule domain.Rule) ([]domain.CodedRecord, error) {
	query := `SELECT taxonomy, code, description, length FROM coded_record WHERE taxonomy = ? ORDER BY code`

	rows, err := table.repo.dbConn.QueryxContext(ctx, query, table.taxonomy)
	if err != nil {
		return nil, fmt.Errorf("getting %s codes for %s: %w", table.taxonomy, rule, err)
	}
	defer rows.Close()

	records := make([]domain.CodedRecord, 0)
	for rows.Next() {
		var dbRecord dbCodedRecord
		if err := rows.StructScan(&dbRecord); err != nil {
			return nil, fmt.Errorf("scanning %s code: %w", table.taxonomy, err)
		}
		if rule.Match(dbRecord.Code) {
			records = append(records, toDomainCodedRecord(&dbRecord))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s codes: %w", table.taxonomy, err)
	}

	return records, nil
}

// FindByLengthAndPrefix returns the codes of the taxonomy that are exactly length
// codepoints long and start with prefix, ordered by code. The prefix comparison is
// case-sensitive.
func (table *CodeTable) FindByLengthAndPrefix(ctx context.Context, length int, prefix string) ([]domain.CodedRecord, error) {
	var dbRecords []*dbCodedRecord
	query := `SELECT taxonomy, code, description, length
	          FROM coded_record
	          WHERE taxonomy = ? AND length = ? AND substr(code, 1, ?) = ?
	          ORDER BY code`

	err := table.repo.dbConn.SelectContext(ctx, &dbRecords, query, table.taxonomy, length, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("getting %s codes of length %d under %s: %w", table.taxonomy, length, prefix, err)
	}

	records := make([]domain.CodedRecord, len(dbRecords))
	for i, dbRecord := range dbRecords {
		records[i] = toDomainCodedRecord(dbRecord)
	}
	return records, nil
}

// UpsertCodedRecords stores records under taxonomy in a single transaction, replacing
// the description of codes that already exist.
func (repo *Repository) UpsertCodedRecords(ctx context.Context, taxonomy string, records []domain.CodedRecord) error {
	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO coded_record (taxonomy, code, description, length)
	          VALUES (:taxonomy, :code, :description, :length)
	          ON CONFLICT (taxonomy, code) DO UPDATE SET description = excluded.description`

	for _, record := range records {
		dbRecord := dbCodedRecord{
			Taxonomy:    taxonomy,
			Code:        record.Code,
			Description: record.Description,
			Length:      utf8.RuneCountInString(record.Code),
		}
		if _, err := tx.NamedExecContext(ctx, query, dbRecord); err != nil {
			return fmt.Errorf("upserting %s code %s: %w", taxonomy, record.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s codes: %w", taxonomy, err)
	}
	return nil
}

// CountCodes returns the number of codes stored under taxonomy.
func (repo *Repository) CountCodes(ctx context.Context, taxonomy string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM coded_record WHERE taxonomy = ?`

	err := repo.dbConn.GetContext(ctx, &count, query, taxonomy)
	if err != nil {
		return 0, fmt.Errorf("getting %s code count: %w", taxonomy, err)
	}

	return count, nil
}
