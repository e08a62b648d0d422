package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/errs"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/storage"
)

// fakeProvider is a minimal in-memory storage.Provider for exercising the
// HTTP handlers without a real cloud backend.
type fakeProvider struct {
	files   []*model.File
	content map[string][]byte
}

func (p *fakeProvider) ListFiles(ctx context.Context, folderIDs []string, recurse bool) ([]*model.File, error) {
	return p.files, nil
}

func (p *fakeProvider) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	c, ok := p.content[fileID]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", fileID)
	}
	return c, nil
}

func (p *fakeProvider) Delete(ctx context.Context, fileID string, permanent bool) error {
	return nil
}

var _ storage.Provider = (*fakeProvider)(nil)

func newTestServer(provider storage.Provider, tokenErr error) *Server {
	return New(func(token string) (storage.Provider, error) {
		if tokenErr != nil {
			return nil, tokenErr
		}
		return provider, nil
	}, embedding.NewFallbackModel())
}

// =============================================================================
// Section 1: POST /api/scan happy path
// =============================================================================

func TestHandleScanReturnsDuplicateReport(t *testing.T) {
	content := bytes.Repeat([]byte{0x9}, 1024)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &fakeProvider{
		files: []*model.File{
			{ID: "a", Name: "a.bin", Size: 1024, LastModified: now},
			{ID: "b", Name: "b.bin", Size: 1024, LastModified: now.Add(time.Hour)},
		},
		content: map[string][]byte{"a": content, "b": content},
	}
	s := newTestServer(p, nil)

	body, _ := json.Marshal(scanRequest{Token: "tok", FolderIDs: []string{"root"}})
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.ExactDuplicates) != 1 {
		t.Fatalf("expected 1 exact duplicate group, got %d", len(resp.ExactDuplicates))
	}
}

// =============================================================================
// Section 2: validation error surfaces as 400
// =============================================================================

func TestHandleScanRejectsEmptyFolderIDs(t *testing.T) {
	s := newTestServer(&fakeProvider{}, nil)

	body, _ := json.Marshal(scanRequest{Token: "tok"})
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// =============================================================================
// Section 3: auth failure surfaces as 401
// =============================================================================

func TestHandleScanRejectsInvalidToken(t *testing.T) {
	s := newTestServer(&fakeProvider{}, errs.AuthExpired(fmt.Errorf("bad token")))

	body, _ := json.Marshal(scanRequest{Token: "bad", FolderIDs: []string{"root"}})
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// =============================================================================
// Section 4: POST /api/approve happy path
// =============================================================================

func TestHandleApproveDeletesFiles(t *testing.T) {
	s := newTestServer(&fakeProvider{}, nil)

	body, _ := json.Marshal(approveRequest{
		Token:     "tok",
		GroupID:   "g1",
		FileIDs:   []string{"a", "b"},
		Permanent: false,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/approve", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp approveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.DeletedFiles) != 2 {
		t.Errorf("expected 2 deleted files, got %d", len(resp.DeletedFiles))
	}
	if resp.Permanent {
		t.Errorf("expected permanent=false to be echoed back")
	}
}
