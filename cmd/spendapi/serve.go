package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/fedspend/spendapi"
	"github.com/fedspend/spendapi/filestreaming"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides listen_address")
	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, listen string) error {
	api, err := openAPI(rootOpts, spendapi.WithTaxonomyScripts())
	if err != nil {
		return err
	}
	defer api.Close()

	if listen != "" {
		api.Config.ListenAddress = listen
	}

	if api.Config.S3.Bucket != "" {
		handler, err := newS3Handler(ctx, api.Config.S3)
		if err != nil {
			return err
		}
		if err := api.WithOptions(spendapi.WithFileStore(handler)); err != nil {
			return err
		}
	} else {
		log.Warn("no s3 bucket configured, bulk download files will be empty")
	}

	return api.ListenAndServe(ctx)
}

// newS3Handler builds the bulk download file handler from the s3 configuration.
func newS3Handler(ctx context.Context, cfg spendapi.S3Config) (*filestreaming.S3Handler, error) {
	var awsOpts []filestreaming.AWSOption
	if cfg.Profile != "" {
		awsOpts = append(awsOpts, filestreaming.WithProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		awsOpts = append(awsOpts, filestreaming.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		awsOpts = append(awsOpts, filestreaming.WithEndpointURL(cfg.Endpoint))
	}

	client, err := filestreaming.NewS3Client(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	var handlerOpts []func(*filestreaming.S3Handler) error
	if cfg.Endpoint != "" {
		handlerOpts = append(handlerOpts, filestreaming.WithEndpoint(cfg.Endpoint))
	}
	return filestreaming.NewS3Handler(client, cfg.Bucket, cfg.Region, handlerOpts...)
}
