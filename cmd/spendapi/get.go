package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fedspend/spendapi"
	"github.com/fedspend/spendapi/db"
	"github.com/fedspend/spendapi/domain"
	"github.com/fedspend/spendapi/pretty"
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "get <path> [name=value...]",
		Short: "Call a running API and print the prettified response",
		Long: `Call a running API and print the response headers and prettified body.

JSON bodies are indented with their key order kept. XML and HTML bodies are
indented too, which covers proxies, error pages and other non-JSON servers.
Anything else is printed as received.`,
		Example: `  spendapi get api/v2/references/filter_tree/psc/Product depth=1
  spendapi get api/v2/agency/012/recipients fiscal_year=2024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, err := loadConfig(rootOpts)
				if err != nil {
					return err
				}
				baseURL = cfg.BaseURL
			}

			query := url.Values{}
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("query parameter %q is not name=value", arg)
				}
				query.Add(name, value)
			}

			client, err := spendapi.NewClient(baseURL)
			if err != nil {
				return err
			}
			res, err := client.Get(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			raw, prettyDump, err := pretty.DumpResponse(res)
			if err != nil {
				return err
			}
			if prettyDump != "" {
				fmt.Fprintln(cmd.OutOrStdout(), prettyDump)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			}

			if res.StatusCode >= 400 {
				return fmt.Errorf("server answered %s", res.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL, overrides base_url")
	return cmd
}

// NewBudgetCommand creates the budget command.
func NewBudgetCommand(rootOpts *RootOptions) *cobra.Command {
	var filter domain.BudgetFilter

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Print total budgetary resources per fiscal year and period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.FiscalPeriod != 0 && filter.FiscalYear == 0 {
				return fmt.Errorf("--fiscal-period needs --fiscal-year")
			}

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			dbConn, err := db.New(cfg.DatabasePath)
			if err != nil {
				return err
			}
			repo := db.NewRepository(dbConn)
			defer repo.Close()

			results, err := repo.TotalBudgetaryResources(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "FY%d P%02d\t$%s\n",
					result.FiscalYear, result.FiscalPeriod, humanize.CommafWithDigits(result.TotalBudgetaryResources, 2))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.FiscalYear, "fiscal-year", 0, "only this fiscal year")
	cmd.Flags().IntVar(&filter.FiscalPeriod, "fiscal-period", 0, "only this fiscal period, needs --fiscal-year")
	return cmd
}
