// Package spendapi serves federal spending reference data as JSON. It is designed to be
// decoupled from the command line and provides the handlers, middleware and server used
// by the spendapi binary.
//
// The core functionality includes:
//   - Filter trees over coded taxonomies (PSC built in, more through Lua rule sets)
//   - GTAS total budgetary resources per fiscal year and period
//   - Recipient statistics per agency and fiscal year
//   - FPDS contract data per transaction
//   - The bulk download file listing backed by S3
//   - Prometheus request metrics
package spendapi

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/fedspend/spendapi/domain"
	"github.com/fedspend/spendapi/taxonomy"
)

// Repository defines the methods consumed by the API handlers to read from the database.
type Repository interface {
	domain.TaxonomyRepository
	domain.BudgetRepository
	domain.RecipientRepository
	domain.TransactionRepository
	Close() error
}

// FileStore lists the files published for bulk download. Listing failures are handled
// by the store and yield an empty list.
type FileStore interface {
	FileList(ctx context.Context, prefix string) []domain.BulkFile
}

// API holds everything the handlers need: the repository, the taxonomies served by the
// filter tree and the bulk download file store.
type API struct {
	ConfigDir string                       // The configuration directory
	Config    *Config                      // Configuration loaded from ConfigDir
	Repo      Repository                   // DB Repository Interface
	Logger    log.Interface                // Logger for requests and failures
	RuleSets  map[string]*taxonomy.RuleSet // Taxonomies served by the filter tree, by name
	Files     FileStore                    // Bulk download files, nil when no bucket is configured
	Metrics   *Metrics                     // Request metrics served on /metrics
	now       func() time.Time
}

// New creates a new API serving the PSC taxonomy and applies any provided options.
func New(options ...func(*API) error) (*API, error) {
	api := &API{
		Logger:   log.Log,
		RuleSets: map[string]*taxonomy.RuleSet{taxonomy.PSCName: taxonomy.PSC()},
		Metrics:  NewMetrics(),
		now:      time.Now,
	}
	if err := api.WithOptions(options...); err != nil {
		return nil, err
	}
	return api, nil
}

// Walker returns a tree walker for the taxonomy registered under name.
func (api *API) Walker(name string) (*taxonomy.Walker, bool) {
	rules, ok := api.RuleSets[name]
	if !ok || api.Repo == nil {
		return nil, false
	}
	return taxonomy.NewWalker(rules, api.Repo.CodeTable(name)), true
}

// Close releases the repository.
func (api *API) Close() error {
	if api.Repo == nil {
		return nil
	}
	if err := api.Repo.Close(); err != nil {
		return fmt.Errorf("closing api repository: %w", err)
	}
	return nil
}
