package spendapi

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/fedspend/spendapi/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger(t *testing.T) {
	t.Run("sets custom logger", func(t *testing.T) {
		entries := memory.New()
		logger := &log.Logger{Handler: entries, Level: log.InfoLevel}

		api, err := New(WithLogger(logger))
		require.NoError(t, err)
		assert.Same(t, logger, api.Logger)

		api.Logger.Info("test log message")
		require.Len(t, entries.Entries, 1)
		assert.Equal(t, "test log message", entries.Entries[0].Message)
	})

	t.Run("handles nil logger safely", func(t *testing.T) {
		api, err := New(WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, log.Log, api.Logger)
	})
}

func TestWithOptions(t *testing.T) {
	t.Run("should stop at the first failing option", func(t *testing.T) {
		failure := errors.New("option failed")
		var applied bool
		_, err := New(
			func(*API) error { return failure },
			func(*API) error { applied = true; return nil },
		)
		assert.ErrorIs(t, err, failure)
		assert.False(t, applied, "second option should be skipped")
	})
}

func TestWithRuleSet(t *testing.T) {
	t.Run("should serve the rule set under its name", func(t *testing.T) {
		rules, err := taxonomy.NewRuleSet("digits", []taxonomy.Group{
			{Label: "All", Rule: taxonomy.MustRegexRule(`^\d$`)},
		}, taxonomy.SentinelDepthRule('0'))
		require.NoError(t, err)

		api, err := New(WithRuleSet(rules))
		require.NoError(t, err)
		assert.Same(t, rules, api.RuleSets["digits"])
		assert.Contains(t, api.RuleSets, taxonomy.PSCName)
	})

	t.Run("should reject a nil rule set", func(t *testing.T) {
		_, err := New(WithRuleSet(nil))
		assert.Error(t, err)
	})
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)
	api, err := New(WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Equal(t, 2021, api.currentFiscalYear())

	_, err = New(WithClock(nil))
	assert.Error(t, err)
}

func TestWithDatabase(t *testing.T) {
	t.Run("should open the configured database", func(t *testing.T) {
		dir := t.TempDir()
		api, err := New(WithConfigDir(dir), WithDatabase(""))
		require.NoError(t, err)
		defer api.Close()

		assert.FileExists(t, filepath.Join(dir, "spendapi.db"))
		_, ok := api.Walker(taxonomy.PSCName)
		assert.True(t, ok, "psc walker")
	})

	t.Run("should fail without a path", func(t *testing.T) {
		_, err := New(WithDatabase(""))
		assert.Error(t, err)
	})
}

func TestWithTaxonomyScripts(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "digits.lua")
	source := `groups = { { label = "Digits", pattern = "^\\d$" } }`
	require.NoError(t, os.WriteFile(script, []byte(source), 0600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.AddTaxonomyScript("digits", script))

	t.Run("should load the configured scripts", func(t *testing.T) {
		api, err := New(WithConfigDir(dir), WithTaxonomyScripts())
		require.NoError(t, err)
		rules, ok := api.RuleSets["digits"]
		require.True(t, ok, "digits rule set in %v", api.RuleSets)
		assert.Equal(t, []string{"Digits"}, rules.Labels())
	})

	t.Run("should fail on a missing script", func(t *testing.T) {
		require.NoError(t, os.Remove(script))
		_, err := New(WithConfigDir(dir), WithTaxonomyScripts())
		assert.Error(t, err)
	})

	t.Run("should need a config", func(t *testing.T) {
		_, err := New(WithTaxonomyScripts())
		assert.Error(t, err)
	})
}
