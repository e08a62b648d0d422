// Package storage defines the StorageProvider contract (spec.md §4.1, §6)
// and its two concrete implementations: Google Drive and Microsoft Graph
// (OneDrive). The pipeline depends only on the Provider interface.
package storage

import (
	"context"

	"github.com/cloudscan/dupescan/internal/model"
)

// Provider is the only boundary the detection pipeline depends on.
// Implementations must:
//   - deduplicate folder visits during recursive listing (a folder id
//     visited once is never revisited);
//   - skip folders themselves, trashed items, and zero-size items;
//   - consume every page of a paginated listing before returning;
//   - surface authentication failures as errs.ErrAuthExpired.
type Provider interface {
	// ListFiles recursively lists files under folderIDs. recurse controls
	// whether subfolders are traversed; when false, only direct children of
	// the given folders are returned.
	ListFiles(ctx context.Context, folderIDs []string, recurse bool) ([]*model.File, error)

	// Fetch downloads the full byte content of a single file.
	Fetch(ctx context.Context, fileID string) ([]byte, error)

	// Delete removes a file. permanent=false moves it to the provider's
	// trash (reversible); permanent=true is irrecoverable.
	Delete(ctx context.Context, fileID string, permanent bool) error
}
