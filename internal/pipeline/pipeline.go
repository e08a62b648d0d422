// Package pipeline orchestrates a single scan: listing files from storage,
// fetching and processing each one through the hasher and text extractor
// with bounded concurrency, running the three detectors in sequence, and
// reconciling their outputs into one report. Grounded on the teacher's
// fan-out/fan-in worker-pool idiom (internal/scanner), generalized from
// filesystem walking to a cloud storage listing.
package pipeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/errs"
	"github.com/cloudscan/dupescan/internal/exactdetector"
	"github.com/cloudscan/dupescan/internal/hashcache"
	"github.com/cloudscan/dupescan/internal/hasher"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/neardetector"
	"github.com/cloudscan/dupescan/internal/progress"
	"github.com/cloudscan/dupescan/internal/storage"
	"github.com/cloudscan/dupescan/internal/supersetdetector"
	"github.com/cloudscan/dupescan/internal/textextract"
)

// defaultFetchConcurrency is the suggested bound from spec.md §5 for
// in-flight file fetches.
const defaultFetchConcurrency = 6

// Request is a scan request, matching spec.md §6's scan-request shape.
type Request struct {
	FolderIDs         []string
	IncludeSubfolders bool
}

// Orchestrator runs one scan. It is single-use: construct with New, call
// Run once.
type Orchestrator struct {
	provider         storage.Provider
	providerName     string
	embeddingModel   embedding.Model
	fingerprintCache *hashcache.Cache
	fetchConcurrency int
	showProgress     bool
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithFetchConcurrency overrides the default bounded fetch concurrency.
func WithFetchConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.fetchConcurrency = n
		}
	}
}

// WithProgress enables a progress bar on stderr during processing.
func WithProgress(show bool) Option {
	return func(o *Orchestrator) { o.showProgress = show }
}

// WithFingerprintCache enables persistent fingerprint caching, keyed by
// providerName plus each file's ID/size/modtime. Pass a disabled cache
// (hashcache.Open("")) to opt out, which is also the default.
func WithFingerprintCache(providerName string, c *hashcache.Cache) Option {
	return func(o *Orchestrator) {
		o.providerName = providerName
		o.fingerprintCache = c
	}
}

// New builds an Orchestrator against the given storage provider and
// embedding model (pass a fallback model if the real one is unavailable).
func New(provider storage.Provider, embeddingModel embedding.Model, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:         provider,
		embeddingModel:   embeddingModel,
		fetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes a scan: validates the request, lists files, processes each
// one with bounded concurrency, runs all three detectors, reconciles their
// output, and returns the final report. Honors ctx cancellation at each
// suspension point (listing, each fetch); work in flight is allowed to
// finish but no new work starts, and a canceled scan returns ctx's error
// with its partial results discarded.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*model.Report, error) {
	if len(req.FolderIDs) == 0 {
		return nil, errs.Validation("folder_ids must not be empty")
	}

	log.Info().Str("stage", "scan").Strs("folder_ids", req.FolderIDs).Msg("listing files")
	files, err := o.provider.ListFiles(ctx, req.FolderIDs, req.IncludeSubfolders)
	if err != nil {
		log.Error().Str("stage", "scan").Err(err).Msg("failed to list files")
		return nil, err
	}

	report := &model.Report{TotalFiles: len(files)}
	log.Info().Str("stage", "hash").Int("total_files", len(files)).Msg("processing files")
	processed := o.processAll(ctx, files, report)
	if err := ctx.Err(); err != nil {
		log.Warn().Str("stage", "scan").Err(err).Msg("scan canceled, discarding partial results")
		return nil, err
	}

	log.Info().Str("stage", "detect").Int("processed_files", len(processed)).Msg("running detectors")
	exact := exactdetector.Find(processed)
	superset := supersetdetector.Find(processed, o.embeddingModel)
	near := neardetector.Find(processed, o.embeddingModel)
	near = reconcile(exact, superset, near)

	report.ExactGroups = exact
	report.SupersetGroups = superset
	report.NearGroups = near
	finalizeCounts(report, exact, superset, near)
	log.Info().Str("stage", "detect").
		Int("exact_groups", len(exact)).
		Int("superset_groups", len(superset)).
		Int("near_groups", len(near)).
		Msg("scan complete")

	return report, nil
}

// processAll fetches, hashes, and extracts text for each file using a
// bounded worker pool (model.Semaphore), matching spec.md §5's 4-8
// in-flight fetch guidance. Per-file failures are recorded in report and
// the file is dropped from the returned slice.
func (o *Orchestrator) processAll(ctx context.Context, files []*model.File, report *model.Report) []*model.File {
	sem := model.NewSemaphore(o.fetchConcurrency)
	bar := progress.New(o.showProgress, len(files))

	var mu sync.Mutex
	var wg sync.WaitGroup
	var processed []*model.File

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(f *model.File) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			if ctx.Err() != nil {
				return
			}

			ok := o.processOne(ctx, f, report, &mu)
			bar.Add(1)
			if ok {
				mu.Lock()
				processed = append(processed, f)
				mu.Unlock()
			}
		}(f)
	}

	wg.Wait()
	bar.Finish()
	return processed
}

// processOne fetches one file's bytes, computes its fingerprint (consulting
// the fingerprint cache first, if enabled), extracts text, and releases the
// byte buffer before returning — the raw content must never outlive this
// function, per spec.md §5's memory invariant.
func (o *Orchestrator) processOne(ctx context.Context, f *model.File, report *model.Report, mu *sync.Mutex) bool {
	cacheID := hashcache.Identity{ProviderName: o.providerName, FileID: f.ID, Size: f.Size, ModTime: f.LastModified}
	if o.fingerprintCache != nil {
		if cached, ok := o.fingerprintCache.Lookup(cacheID); ok {
			f.Fingerprint = cached
		}
	}

	content, err := o.provider.Fetch(ctx, f.ID)
	if err != nil {
		log.Warn().Str("stage", "fetch").Str("file", f.Name).Err(err).Msg("failed to fetch file")
		mu.Lock()
		report.AppendError(f.Name, err)
		mu.Unlock()
		return false
	}

	if f.Fingerprint == "" {
		f.Fingerprint = hasher.Hash(content)
		if o.fingerprintCache != nil {
			o.fingerprintCache.Store(cacheID, f.Fingerprint)
		}
	}

	text, ok := textextract.Extract(content, f.MimeType, f.Name)
	if ok {
		f.Text = text
		f.HasText = true
	}

	return true
}

func finalizeCounts(report *model.Report, exact, superset, near []*model.Group) {
	all := append(append(append([]*model.Group{}, exact...), superset...), near...)

	report.FilesProcessed = report.TotalFiles - report.FilesFailed
	report.TotalDuplicateGroups = len(all)

	var totalDupFiles int
	var totalSavings int64
	for _, g := range all {
		totalDupFiles += len(g.Duplicates)
		totalSavings += g.SavingsBytes
	}
	report.TotalDuplicateFiles = totalDupFiles
	report.TotalStorageSavingsBytes = totalSavings
}
