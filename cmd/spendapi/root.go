package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fedspend/spendapi"
	"github.com/fedspend/spendapi/core"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	LogLevel  string
}

// NewRootCommand creates the root command for the spendapi CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "spendapi",
		Short:         "Federal spending reference API",
		Long:          "Serve federal spending reference data as JSON and manage the codes, files and taxonomies behind it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigDir == "" {
				dir, err := defaultConfigDir()
				if err != nil {
					return err
				}
				opts.ConfigDir = dir
			}
			level := opts.LogLevel
			if level == "" {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				level = cfg.LogLevel
			}
			return core.InitLogger(level)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default $XDG_CONFIG_HOME/spendapi)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the configured level")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLoadCodesCommand(opts))
	cmd.AddCommand(NewTreeCommand(opts))
	cmd.AddCommand(NewBudgetCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewFilesCommand(opts))
	cmd.AddCommand(NewTaxonomyCommand(opts))

	return cmd
}

func defaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding user config dir: %w", err)
	}
	return filepath.Join(dir, "spendapi"), nil
}

// openAPI loads the configuration and database of opts, with any extra options applied last.
func openAPI(opts *RootOptions, options ...func(*spendapi.API) error) (*spendapi.API, error) {
	base := []func(*spendapi.API) error{
		spendapi.WithConfigDir(opts.ConfigDir),
		spendapi.WithDatabase(""),
	}
	return spendapi.New(append(base, options...)...)
}

// loadConfig reads the configuration without opening the database.
func loadConfig(opts *RootOptions) (*spendapi.Config, error) {
	return spendapi.LoadConfig(opts.ConfigDir)
}
