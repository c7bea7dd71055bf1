package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fedspend/spendapi/filestreaming"
	"github.com/spf13/cobra"
)

// NewFilesCommand creates the files command and its subcommands.
func NewFilesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the bulk download bucket",
	}

	cmd.AddCommand(newFilesListCommand(rootOpts))
	cmd.AddCommand(newFilesUploadCommand(rootOpts))
	cmd.AddCommand(newFilesURLCommand(rootOpts))
	return cmd
}

// bucketHandler returns the S3 handler of the configured bucket.
func bucketHandler(cmd *cobra.Command, rootOpts *RootOptions) (*filestreaming.S3Handler, error) {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return nil, err
	}
	if cfg.S3.Bucket == "" {
		return nil, errors.New("no s3 bucket configured, set s3.bucket in config.yaml")
	}
	return newS3Handler(cmd.Context(), cfg.S3)
}

func newFilesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List the files of the bucket",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := bucketHandler(cmd, rootOpts)
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			files, err := handler.ListFiles(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					file.FileName, humanize.Bytes(uint64(file.Size)), humanize.Time(file.LastModified))
			}
			return nil
		},
	}
}

func newFilesUploadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file under a timestamped name and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := bucketHandler(cmd, rootOpts)
			if err != nil {
				return err
			}

			key, err := handler.UploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), handler.SimpleURL(key))
			return nil
		},
	}
}

func newFilesURLCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url <file-name>",
		Short: "Print the public URL of a file in the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if cfg.S3.Bucket == "" {
				return errors.New("no s3 bucket configured, set s3.bucket in config.yaml")
			}

			var options []func(*filestreaming.S3Handler) error
			if cfg.S3.Endpoint != "" {
				options = append(options, filestreaming.WithEndpoint(cfg.S3.Endpoint))
			}
			handler, err := filestreaming.NewS3Handler(nil, cfg.S3.Bucket, cfg.S3.Region, options...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), handler.SimpleURL(args[0]))
			return nil
		},
	}
}
