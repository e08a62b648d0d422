package deletion

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/storage"
)

// fakeProvider is a minimal in-memory storage.Provider for exercising
// Executor.Run without a real cloud backend.
type fakeProvider struct {
	failIDs   map[string]bool
	deleted   []string
	permanent map[string]bool
}

func newFakeProvider(failIDs ...string) *fakeProvider {
	fail := make(map[string]bool)
	for _, id := range failIDs {
		fail[id] = true
	}
	return &fakeProvider{failIDs: fail, permanent: make(map[string]bool)}
}

func (p *fakeProvider) ListFiles(ctx context.Context, folderIDs []string, recurse bool) ([]*model.File, error) {
	return nil, nil
}

func (p *fakeProvider) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	return nil, nil
}

func (p *fakeProvider) Delete(ctx context.Context, fileID string, permanent bool) error {
	if p.failIDs[fileID] {
		return fmt.Errorf("delete failed for %s", fileID)
	}
	p.deleted = append(p.deleted, fileID)
	p.permanent[fileID] = permanent
	return nil
}

var _ storage.Provider = (*fakeProvider)(nil)

// =============================================================================
// Section 1: all deletes succeed
// =============================================================================

func TestRunDeletesAllFiles(t *testing.T) {
	p := newFakeProvider()
	e := New(p)

	result := e.Run(context.Background(), Request{FileIDs: []string{"a", "b", "c"}, Permanent: false})

	if len(result.DeletedFiles) != 3 {
		t.Fatalf("expected 3 deleted files, got %d", len(result.DeletedFiles))
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	for _, id := range []string{"a", "b", "c"} {
		if p.permanent[id] {
			t.Errorf("expected %s to be soft-deleted, got permanent", id)
		}
	}
}

// =============================================================================
// Section 2: one failure does not abort the batch
// =============================================================================

func TestRunContinuesPastPerFileFailure(t *testing.T) {
	p := newFakeProvider("b")
	e := New(p)

	result := e.Run(context.Background(), Request{FileIDs: []string{"a", "b", "c"}, Permanent: true})

	if len(result.DeletedFiles) != 2 {
		t.Fatalf("expected 2 deleted files, got %d", len(result.DeletedFiles))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].FileID != "b" {
		t.Errorf("expected failure recorded for b, got %s", result.Errors[0].FileID)
	}
	if !result.Permanent {
		t.Errorf("expected Permanent=true to be carried through to result")
	}
}

// =============================================================================
// Section 3: cancellation returns partial results
// =============================================================================

func TestRunHonorsCancellationAtFileBoundary(t *testing.T) {
	p := newFakeProvider()
	e := New(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Run(ctx, Request{FileIDs: []string{"a", "b", "c"}, Permanent: false})

	if len(result.DeletedFiles) != 0 {
		t.Errorf("expected no deletes after cancellation, got %v", result.DeletedFiles)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors recorded after cancellation, got %v", result.Errors)
	}
}

// =============================================================================
// Section 4: empty batch
// =============================================================================

func TestRunEmptyFileIDs(t *testing.T) {
	e := New(newFakeProvider())
	result := e.Run(context.Background(), Request{FileIDs: nil})

	if len(result.DeletedFiles) != 0 || len(result.Errors) != 0 {
		t.Errorf("expected empty result for empty batch, got %+v", result)
	}
}
