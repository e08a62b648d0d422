package embedding

import (
	"math"
	"sync"

	"github.com/anush008/fastembed-go"
	"github.com/rs/zerolog/log"
)

// embedBatchSize bounds how many texts are embedded in one ONNX inference
// call, keeping peak memory predictable for large duplicate-group chunk
// sets.
const embedBatchSize = 32

// FastEmbedModel wraps a locally-run sentence-embedding model (all-MiniLM-L6-v2
// via ONNX runtime). Loading happens once, lazily, on first use: the
// constructor never fails, since a scan should proceed with the fallback
// model rather than abort if the runtime or model file is unavailable.
type FastEmbedModel struct {
	once    sync.Once
	engine  *fastembed.FlagEmbedding
	loadErr error

	fallback *FallbackModel
}

// NewFastEmbedModel returns a model that will attempt to load the real
// embedding backend on first call and fall back deterministically if that
// fails.
func NewFastEmbedModel() *FastEmbedModel {
	return &FastEmbedModel{fallback: NewFallbackModel()}
}

func (m *FastEmbedModel) ensureLoaded() {
	m.once.Do(func() {
		engine, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
			Model: fastembed.AllMiniLML6V2,
		})
		if err != nil {
			m.loadErr = err
			log.Warn().Str("stage", "embed").Err(err).Msg("embedding model unavailable, using fallback text similarity")
			return
		}
		m.engine = engine
	})
}

// Embed returns one vector per non-empty input text. Empty strings are
// dropped before embedding, matching the original extractor's "filter out
// empty texts" behavior; ok is false if the real model never loaded.
func (m *FastEmbedModel) Embed(texts []string) ([][]float32, bool) {
	m.ensureLoaded()
	if m.engine == nil {
		return nil, false
	}

	var valid []string
	for _, t := range texts {
		if t != "" {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return nil, false
	}

	vectors, err := m.engine.Embed(valid, embedBatchSize)
	if err != nil {
		log.Warn().Err(err).Msg("embedding inference failed, falling back for this call")
		return nil, false
	}
	return vectors, true
}

// Similarity returns the cosine similarity of a and b's embeddings, with
// negative values clamped to 0, falling back to the deterministic heuristic
// if the model is unavailable or inference fails.
func (m *FastEmbedModel) Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	vectors, ok := m.Embed([]string{a, b})
	if !ok || len(vectors) < 2 {
		return m.fallback.Similarity(a, b)
	}
	return math.Max(0, cosineSimilarity(vectors[0], vectors[1]))
}

// FilenameSimilarity behaves like Similarity but over filenames.
func (m *FastEmbedModel) FilenameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	vectors, ok := m.Embed([]string{a, b})
	if !ok || len(vectors) < 2 {
		return m.fallback.FilenameSimilarity(a, b)
	}
	return math.Max(0, cosineSimilarity(vectors[0], vectors[1]))
}
