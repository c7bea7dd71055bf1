package spendapi

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/fedspend/spendapi/db"
	"github.com/fedspend/spendapi/taxonomy"
)

// WithOptions applies a series of configuration functions to the API instance.
// It returns the first error encountered from any option function.
func (api *API) WithOptions(options ...func(*API) error) error {
	for _, option := range options {
		err := option(api)
		if err != nil {
			return fmt.Errorf("applying option on spendapi : %w", err)
		}
	}
	return nil
}

// WithConfigDir loads config.yaml from appConfigDir, creating the directory and the
// file with defaults when they do not exist.
func WithConfigDir(appConfigDir string) func(*API) error {
	return func(api *API) error {
		cfg, err := LoadConfig(appConfigDir)
		if err != nil {
			return err
		}
		api.ConfigDir = appConfigDir
		api.Config = cfg
		return nil
	}
}

// WithDatabase opens (and migrates) the SQLite database at path. An empty path uses the
// configured database_path.
func WithDatabase(path string) func(*API) error {
	return func(api *API) error {
		if path == "" && api.Config != nil {
			path = api.Config.DatabasePath
		}
		if path == "" {
			return errors.New("no database path configured")
		}
		dbConn, err := db.New(path)
		if err != nil {
			return fmt.Errorf("opening database %s : %w", path, err)
		}
		return WithRepository(db.NewRepository(dbConn))(api)
	}
}

// WithRepository sets the repository, closing the previous one if there was one.
func WithRepository(repo Repository) func(*API) error {
	return func(api *API) error {
		if api.Repo != nil {
			if err := api.Repo.Close(); err != nil {
				return err
			}
		}
		api.Repo = repo
		return nil
	}
}

// WithLogger sets the logger, a nil logger keeps the default apex logger.
func WithLogger(logger log.Interface) func(*API) error {
	return func(api *API) error {
		if logger == nil {
			logger = log.Log
		}
		api.Logger = logger
		return nil
	}
}

// WithRuleSet serves rules under its name, replacing any rule set with the same name.
func WithRuleSet(rules *taxonomy.RuleSet) func(*API) error {
	return func(api *API) error {
		if rules == nil {
			return errors.New("rule set is nil")
		}
		api.RuleSets[rules.Name()] = rules
		return nil
	}
}

// WithTaxonomyScripts loads the Lua rule sets listed in the configuration.
func WithTaxonomyScripts() func(*API) error {
	return func(api *API) error {
		if api.Config == nil {
			return errors.New("taxonomy scripts need a loaded config")
		}
		for _, script := range api.Config.TaxonomyScripts {
			source, err := os.ReadFile(script.Path)
			if err != nil {
				return fmt.Errorf("reading taxonomy script %s : %w", script.Path, err)
			}
			rules, err := taxonomy.LoadLuaRuleSet(script.Name, string(source))
			if err != nil {
				return err
			}
			api.RuleSets[rules.Name()] = rules
			api.Logger.WithField("taxonomy", script.Name).Debug("loaded taxonomy script")
		}
		return nil
	}
}

// WithFileStore sets the bulk download file store.
func WithFileStore(files FileStore) func(*API) error {
	return func(api *API) error {
		api.Files = files
		return nil
	}
}

// WithClock sets the time source used for the default fiscal year.
func WithClock(now func() time.Time) func(*API) error {
	return func(api *API) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		api.now = now
		return nil
	}
}
