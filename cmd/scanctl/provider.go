package main

import (
	"fmt"

	"github.com/cloudscan/dupescan/internal/storage"
	"github.com/cloudscan/dupescan/internal/storage/googledrive"
	"github.com/cloudscan/dupescan/internal/storage/graphdrive"
)

// resolveProvider builds the storage.Provider named by provider ("gdrive"
// or "onedrive"), authenticated with token.
func resolveProvider(provider, token string) (storage.Provider, error) {
	switch provider {
	case "gdrive":
		return googledrive.New(token), nil
	case "onedrive":
		return graphdrive.New(token), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want gdrive or onedrive)", provider)
	}
}
