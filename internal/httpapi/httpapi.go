// Package httpapi exposes the scan and approve operations over HTTP,
// matching spec.md §6's request/response shapes. It is intentionally thin:
// it marshals JSON, delegates to internal/pipeline and internal/deletion,
// and returns — the same idiom as the pack's gorilla/mux-based REST server
// (seike460-s3ry's internal/api), which keeps handlers free of business
// logic and routes everything through its own core packages.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/cloudscan/dupescan/internal/deletion"
	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/errs"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/pipeline"
	"github.com/cloudscan/dupescan/internal/storage"
)

// ProviderFactory resolves a storage.Provider for a request's token, so the
// server never has to know which cloud backend a given token belongs to.
type ProviderFactory func(token string) (storage.Provider, error)

// Server is the HTTP surface over the scan and approve operations.
type Server struct {
	providers      ProviderFactory
	embeddingModel embedding.Model
}

// New builds a Server. providers resolves a request's token to the
// concrete storage.Provider (Google Drive, OneDrive, ...) to use for it.
func New(providers ProviderFactory, embeddingModel embedding.Model) *Server {
	return &Server{providers: providers, embeddingModel: embeddingModel}
}

// Router builds the gorilla/mux router exposing POST /api/scan and
// POST /api/approve.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/scan", s.handleScan).Methods(http.MethodPost)
	r.HandleFunc("/api/approve", s.handleApprove).Methods(http.MethodPost)
	return r
}

// scanRequest is spec.md §6's scan-request shape.
type scanRequest struct {
	Token             string   `json:"token"`
	FolderIDs         []string `json:"folder_ids"`
	IncludeSubfolders bool     `json:"include_subfolders"`
}

// scanResponse is spec.md §6's scan-response shape.
type scanResponse struct {
	Status                   string            `json:"status"`
	TotalFiles               int               `json:"total_files"`
	FilesProcessed           int               `json:"files_processed"`
	FilesFailed              int               `json:"files_failed"`
	ExactDuplicates          []*model.Group    `json:"exact_duplicates"`
	SupersetSubsetDuplicates []*model.Group    `json:"superset_subset_duplicates"`
	NearDuplicates           []*model.Group    `json:"near_duplicates"`
	TotalDuplicateGroups     int               `json:"total_duplicate_groups"`
	TotalDuplicateFiles      int               `json:"total_duplicate_files"`
	TotalStorageSavingsBytes int64             `json:"total_storage_savings_bytes"`
	Errors                   []model.FileError `json:"errors"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	provider, err := s.providers(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scanTimeout)
	defer cancel()

	orch := pipeline.New(provider, s.embeddingModel)
	report, err := orch.Run(ctx, pipeline.Request{
		FolderIDs:         req.FolderIDs,
		IncludeSubfolders: req.IncludeSubfolders,
	})
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Status:                   "completed",
		TotalFiles:               report.TotalFiles,
		FilesProcessed:           report.FilesProcessed,
		FilesFailed:              report.FilesFailed,
		ExactDuplicates:          report.ExactGroups,
		SupersetSubsetDuplicates: report.SupersetGroups,
		NearDuplicates:           report.NearGroups,
		TotalDuplicateGroups:     report.TotalDuplicateGroups,
		TotalDuplicateFiles:      report.TotalDuplicateFiles,
		TotalStorageSavingsBytes: report.TotalStorageSavingsBytes,
		Errors:                   report.Errors,
	})
}

// approveRequest is spec.md §6's approve-request shape.
type approveRequest struct {
	Token     string   `json:"token"`
	GroupID   string   `json:"group_id"`
	FileIDs   []string `json:"file_ids"`
	Permanent bool     `json:"permanent"`
}

// approveResponse is spec.md §6's approve-response shape.
type approveResponse struct {
	Status       string             `json:"status"`
	DeletedFiles []string           `json:"deleted_files"`
	Errors       []deletion.FileError `json:"errors"`
	Permanent    bool               `json:"permanent"`
	Message      string             `json:"message"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	provider, err := s.providers(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), approveTimeout)
	defer cancel()

	result := deletion.New(provider).Run(ctx, deletion.Request{
		FileIDs:   req.FileIDs,
		Permanent: req.Permanent,
	})

	message := "deletion complete"
	if len(result.Errors) > 0 {
		message = "deletion completed with errors"
	}

	writeJSON(w, http.StatusOK, approveResponse{
		Status:       "ok",
		DeletedFiles: result.DeletedFiles,
		Errors:       result.Errors,
		Permanent:    result.Permanent,
		Message:      message,
	})
}

const (
	scanTimeout    = 10 * time.Minute
	approveTimeout = 2 * time.Minute
)

func statusForError(err error) int {
	switch {
	case errs.IsAuthExpired(err):
		return http.StatusUnauthorized
	case errs.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Status: "error", Error: err.Error()})
}
