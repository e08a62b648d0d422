package embedding

// FallbackModel is the deterministic similarity scorer used whenever the
// real embedding model (fastembed.go) cannot be loaded: no model file on
// disk, an unsupported platform, or any load error. It mirrors the original
// scanner's _simple_text_similarity degradation path exactly, so results
// stay explainable even without the ONNX runtime.
type FallbackModel struct{}

// NewFallbackModel returns a FallbackModel. It has no state to initialize.
func NewFallbackModel() *FallbackModel { return &FallbackModel{} }

// Similarity blends character-level (Ratcliff/Obershelp) and word-level
// (Jaccard) similarity: 0.4*charSim + 0.6*wordSim.
func (m *FallbackModel) Similarity(a, b string) float64 {
	return blendedSimilarity(a, b)
}

// FilenameSimilarity uses the identical blend; filenames are short enough
// that a separate formula isn't warranted.
func (m *FallbackModel) FilenameSimilarity(a, b string) float64 {
	return blendedSimilarity(a, b)
}

// Embed always reports no real vectors available.
func (m *FallbackModel) Embed(texts []string) ([][]float32, bool) {
	return nil, false
}

func blendedSimilarity(a, b string) float64 {
	na := normalizeForCompare(a)
	nb := normalizeForCompare(b)
	if na == "" || nb == "" {
		return 0.0
	}

	charSim := sequenceRatio(na, nb)
	wordSim := jaccardTokens(na, nb)
	return charSim*0.4 + wordSim*0.6
}
