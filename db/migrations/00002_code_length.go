package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCodeLength, downCodeLength)
}

// upCodeLength adds the codepoint length of every taxonomy code as its own column so
// that tier lookups can filter on it.
func upCodeLength(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `ALTER TABLE coded_record ADD COLUMN length INTEGER NOT NULL DEFAULT 0`)
	if err != nil {
		return fmt.Errorf("adding length column : %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT taxonomy, code FROM coded_record")
	if err != nil {
		return fmt.Errorf("getting all codes: %w", err)
	}

	type key struct{ taxonomy, code string }
	var codes []key
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.taxonomy, &k.code); err != nil {
			rows.Close()
			return fmt.Errorf("scanning row: %w", err)
		}
		codes = append(codes, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating rows: %w", err)
	}
	rows.Close()

	for _, k := range codes {
		_, err = tx.ExecContext(ctx, "UPDATE coded_record SET length = ? WHERE taxonomy = ? AND code = ?",
			utf8.RuneCountInString(k.code), k.taxonomy, k.code)
		if err != nil {
			return fmt.Errorf("updating length of %s/%s : %w", k.taxonomy, k.code, err)
		}
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX coded_record_length_idx ON coded_record (taxonomy, length, code)`)
	if err != nil {
		return fmt.Errorf("creating length index : %w", err)
	}
	return nil
}

func downCodeLength(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP INDEX coded_record_length_idx`); err != nil {
		return fmt.Errorf("dropping length index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE coded_record DROP COLUMN length`); err != nil {
		return fmt.Errorf("dropping length column: %w", err)
	}
	return nil
}
