package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fedspend/spendapi/taxonomy"
	"github.com/spf13/cobra"
)

// NewTaxonomyCommand creates the taxonomy command and its subcommands.
func NewTaxonomyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Manage the Lua rule sets served next to psc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <script>",
		Short: "Check a Lua rule set and serve it under name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			rules, err := taxonomy.LoadLuaRuleSet(args[0], string(source))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if err := cfg.AddTaxonomyScript(args[0], path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s with groups %v\n", args[0], rules.Labels())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Stop serving a Lua rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			return cfg.DeleteTaxonomyScript(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the configured Lua rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(built in)\n", taxonomy.PSCName)
			for _, script := range cfg.TaxonomyScripts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", script.Name, script.Path)
			}
			return nil
		},
	})

	return cmd
}
