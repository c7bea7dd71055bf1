// Package db provides the database layer of the spending API.
// It encapsulates all interactions with the underlying SQL database: taxonomy codes
// for the filter trees, GTAS budgetary balances, agency recipients and FPDS contract
// transactions.
//
// This package is responsible for:
// - Establishing the database connection and applying migrations (`db.go`, `migrations/`).
// - Defining database-specific row structs that map to SQL table schemas.
// - Implementing the repository interfaces of the `domain` package.
// - Converting between domain structs and database rows, including the use of
//   `sql.Null*` types for nullable columns.
package db
