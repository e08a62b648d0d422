package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cloudscan/dupescan/internal/config"
	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/hashcache"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/pipeline"
)

// scanOptions holds CLI flags for the scan command.
type scanOptions struct {
	provider          string
	token             string
	folders           []string
	includeSubfolders bool
	workers           int
	cacheFile         string
	noProgress        bool
	asJSON            bool
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{
		provider: "gdrive",
		workers:  6,
	}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a cloud storage account for duplicate files",
		Long: `Lists files under the given folders, fetches and fingerprints each one,
and reports exact, superset/subset, and near-duplicate groups with
estimated storage savings.

Use --json to print the full report as JSON instead of a summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", opts.provider, "Storage provider: gdrive or onedrive")
	cmd.Flags().StringVar(&opts.token, "token", "", "Access token for the storage provider")
	cmd.Flags().StringSliceVar(&opts.folders, "folder", nil, "Root folder ID to scan (repeatable)")
	cmd.Flags().BoolVar(&opts.includeSubfolders, "recurse", true, "Recurse into subfolders")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of in-flight file fetches")
	cmd.Flags().StringVar(&opts.cacheFile, "cache-file", "", "Path to fingerprint cache file (enables caching)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full report as JSON")

	return cmd
}

// applyConfig layers config-file and SCANCTL_-prefixed environment settings
// under whichever flags the user explicitly passed, so a deployment can set
// defaults (provider, worker count, cache file, token) once instead of
// repeating them on every invocation.
func applyConfig(cmd *cobra.Command, opts *scanOptions) error {
	settings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !cmd.Flags().Changed("provider") {
		opts.provider = settings.Provider
	}
	if !cmd.Flags().Changed("workers") {
		opts.workers = settings.FetchConcurrency
	}
	if !cmd.Flags().Changed("cache-file") {
		opts.cacheFile = settings.CacheFile
	}
	if opts.token == "" {
		if opts.provider == "onedrive" {
			opts.token = settings.GraphToken
		} else {
			opts.token = settings.GoogleDriveToken
		}
	}
	return nil
}

func runScan(cmd *cobra.Command, opts *scanOptions) error {
	if err := applyConfig(cmd, opts); err != nil {
		return err
	}
	if opts.token == "" {
		return fmt.Errorf("--token is required")
	}
	if len(opts.folders) == 0 {
		return fmt.Errorf("at least one --folder is required")
	}

	provider, err := resolveProvider(opts.provider, opts.token)
	if err != nil {
		return err
	}

	fingerprintCache, err := hashcache.Open(opts.cacheFile)
	if err != nil {
		return fmt.Errorf("open fingerprint cache: %w", err)
	}
	defer func() { _ = fingerprintCache.Close() }()

	orch := pipeline.New(provider, embedding.NewFastEmbedModel(),
		pipeline.WithFetchConcurrency(opts.workers),
		pipeline.WithProgress(!opts.noProgress),
		pipeline.WithFingerprintCache(opts.provider, fingerprintCache),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := orch.Run(ctx, pipeline.Request{
		FolderIDs:         opts.folders,
		IncludeSubfolders: opts.includeSubfolders,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}
	printSummary(report)
	return nil
}

func printSummary(report *model.Report) {
	fmt.Printf("scanned %d files (%d processed, %d failed)\n", report.TotalFiles, report.FilesProcessed, report.FilesFailed)
	fmt.Printf("exact duplicate groups:     %d\n", len(report.ExactGroups))
	fmt.Printf("superset/subset groups:     %d\n", len(report.SupersetGroups))
	fmt.Printf("near-duplicate groups:      %d\n", len(report.NearGroups))
	fmt.Printf("total duplicate files:      %d\n", report.TotalDuplicateFiles)
	fmt.Printf("estimated storage savings:  %s\n", humanize.Bytes(uint64(report.TotalStorageSavingsBytes)))

	for _, fe := range report.Errors {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", fe.FileName, fe.Error)
	}
}
