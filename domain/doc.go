// Package domain defines the core data structures of the spending API and the
// repository interfaces that describe how they are persisted.
//
// It contains the taxonomy node model used by the filter tree, GTAS budgetary
// balances, agency recipient data and FPDS contract transactions. By defining
// repository contracts here, the HTTP layer and the tree walker stay independent of
// the storage technology behind them.
package domain
