package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/fedspend/spendapi"
	"github.com/fedspend/spendapi/db"
	"github.com/fedspend/spendapi/domain"
	"github.com/fedspend/spendapi/taxonomy"
	"github.com/spf13/cobra"
)

// NewLoadCodesCommand creates the load-codes command.
func NewLoadCodesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load-codes <taxonomy> <csv-file>",
		Short: "Load taxonomy codes from a code,description CSV file",
		Long: `Load taxonomy codes from a CSV file with a code and a description column.

A first row reading "code" in the first column is treated as a header. Codes that
already exist keep their place and get the new description.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[1], err)
			}
			defer f.Close()

			records, err := readCodes(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
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

			if err := repo.UpsertCodedRecords(cmd.Context(), args[0], records); err != nil {
				return err
			}
			count, err := repo.CountCodes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"taxonomy": args[0], "file": args[1]}).Debug("loaded codes")
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s %s codes, %s now holds %s\n",
				humanize.Comma(int64(len(records))), args[0], args[0], humanize.Comma(int64(count)))
			return nil
		},
	}
}

// readCodes parses code,description rows. Extra columns are ignored.
func readCodes(r io.Reader) ([]domain.CodedRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []domain.CodedRecord
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "code") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: want code and description, got %d columns", line, len(row))
		}
		code := strings.TrimSpace(row[0])
		if code == "" {
			return nil, fmt.Errorf("line %d: empty code", line)
		}
		records = append(records, domain.CodedRecord{Code: code, Description: strings.TrimSpace(row[1])})
	}
	return records, nil
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	var depth int
	var filter string

	cmd := &cobra.Command{
		Use:   "tree <taxonomy> [key...]",
		Short: "Print the children of a path in a taxonomy filter tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := openAPI(rootOpts, spendapi.WithTaxonomyScripts())
			if err != nil {
				return err
			}
			defer api.Close()

			walker, ok := api.Walker(args[0])
			if !ok {
				return fmt.Errorf("taxonomy %s does not exist", args[0])
			}

			tree, err := walker.ResolveTree(cmd.Context(), args[1:], depth)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), taxonomy.FilterTree(tree, filter), 0)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, fmt.Sprintf("extra tiers to expand (0-%d)", taxonomy.MaxDepth))
	cmd.Flags().StringVar(&filter, "filter", "", "only show nodes whose code or description contains this text")
	return cmd
}

func printTree(w io.Writer, nodes []taxonomy.TreeNode, level int) {
	indent := strings.Repeat("  ", level)
	for _, node := range nodes {
		if node.Description == "" {
			fmt.Fprintf(w, "%s%s\n", indent, node.ID)
		} else {
			fmt.Fprintf(w, "%s%s\t%s\n", indent, node.ID, node.Description)
		}
		printTree(w, node.Children, level+1)
	}
}
