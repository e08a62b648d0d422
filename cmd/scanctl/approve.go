package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudscan/dupescan/internal/config"
	"github.com/cloudscan/dupescan/internal/deletion"
)

// approveOptions holds CLI flags for the approve command.
type approveOptions struct {
	provider  string
	token     string
	fileIDs   []string
	permanent bool
}

func newApproveCmd() *cobra.Command {
	opts := &approveOptions{provider: "gdrive"}

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Delete approved duplicate files",
		Long: `Deletes the given file IDs through the storage provider. By default this
is a soft delete (reversible, moved to trash); pass --permanent for an
irreversible delete.

A failure on one file does not abort the batch; failures are printed to
stderr and the command still exits 0 if at least the request itself was
well-formed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApprove(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", opts.provider, "Storage provider: gdrive or onedrive")
	cmd.Flags().StringVar(&opts.token, "token", "", "Access token for the storage provider")
	cmd.Flags().StringSliceVar(&opts.fileIDs, "file", nil, "File ID to delete (repeatable)")
	cmd.Flags().BoolVar(&opts.permanent, "permanent", false, "Permanently delete instead of moving to trash")

	return cmd
}

func runApprove(cmd *cobra.Command, opts *approveOptions) error {
	settings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cmd.Flags().Changed("provider") {
		opts.provider = settings.Provider
	}
	if opts.token == "" {
		if opts.provider == "onedrive" {
			opts.token = settings.GraphToken
		} else {
			opts.token = settings.GoogleDriveToken
		}
	}

	if opts.token == "" {
		return fmt.Errorf("--token is required")
	}
	if len(opts.fileIDs) == 0 {
		return fmt.Errorf("at least one --file is required")
	}

	provider, err := resolveProvider(opts.provider, opts.token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := deletion.New(provider).Run(ctx, deletion.Request{
		FileIDs:   opts.fileIDs,
		Permanent: opts.permanent,
	})

	fmt.Printf("deleted %d of %d files\n", len(result.DeletedFiles), len(opts.fileIDs))
	for _, fe := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", fe.FileID, fe.Error)
	}

	return nil
}
