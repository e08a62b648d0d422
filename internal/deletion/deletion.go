// Package deletion executes approved duplicate-file deletions against a
// storage.Provider, one file at a time, collecting per-file success and
// failure independently so one bad ID never aborts the batch. Grounded on
// the teacher's internal/deduper sequential-processing idiom, generalized
// from local hardlink replacement to remote delete calls.
package deletion

import (
	"context"

	"github.com/cloudscan/dupescan/internal/storage"
)

// Request is an approve request, matching spec.md §6's approve-request
// shape (Token is expected to already be embedded in the Provider).
type Request struct {
	FileIDs   []string
	Permanent bool
}

// Result is an approve response, matching spec.md §6's approve-response
// shape.
type Result struct {
	DeletedFiles []string
	Errors       []FileError
	Permanent    bool
}

// FileError is one failed deletion.
type FileError struct {
	FileID string `json:"file_id"`
	Error  string `json:"error"`
}

// Executor is single-use: construct with New, call Run once.
type Executor struct {
	provider storage.Provider
}

// New returns an Executor that deletes through provider.
func New(provider storage.Provider) *Executor {
	return &Executor{provider: provider}
}

// Run deletes every file in req.FileIDs in sequence. ctx cancellation is
// honored at each file boundary: once canceled, no further deletes are
// attempted and the partial success/failure lists collected so far are
// returned, matching spec.md §5's cancellation contract for deletion
// batches.
func (e *Executor) Run(ctx context.Context, req Request) *Result {
	result := &Result{Permanent: req.Permanent}

	for _, id := range req.FileIDs {
		if ctx.Err() != nil {
			break
		}

		if err := e.provider.Delete(ctx, id, req.Permanent); err != nil {
			result.Errors = append(result.Errors, FileError{FileID: id, Error: err.Error()})
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, id)
	}

	return result
}
