package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudscan/dupescan/internal/config"
	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/httpapi"
	"github.com/cloudscan/dupescan/internal/storage"
)

// serveOptions holds CLI flags for the serve command.
type serveOptions struct {
	listenAddr string
	provider   string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{listenAddr: ":8080", provider: "gdrive"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API exposing /api/scan and /api/approve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.listenAddr, "listen", opts.listenAddr, "Address to listen on")
	cmd.Flags().StringVar(&opts.provider, "provider", opts.provider,
		"Storage provider used to resolve each request's token: gdrive or onedrive")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	settings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cmd.Flags().Changed("listen") {
		opts.listenAddr = settings.ListenAddr
	}
	if !cmd.Flags().Changed("provider") {
		opts.provider = settings.Provider
	}

	srv := httpapi.New(func(token string) (storage.Provider, error) {
		return resolveProvider(opts.provider, token)
	}, embedding.NewFastEmbedModel())

	httpServer := &http.Server{
		Addr:         opts.listenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	fmt.Printf("scanctl serve listening on %s\n", opts.listenAddr)
	return httpServer.ListenAndServe()
}
