package model

// Kind identifies which detector produced a duplicate group.
type Kind string

const (
	KindExact          Kind = "exact"
	KindSupersetSubset Kind = "superset_subset"
	KindNear           Kind = "near"
)

// DetectionMethod tags how a near-duplicate group was found, per spec.md §3.
type DetectionMethod string

const (
	MethodContentBased      DetectionMethod = "content-based"
	MethodFilenameMetadata   DetectionMethod = "filename+metadata"
)

// Group is a duplicate group: one primary file plus an ordered set of
// duplicate files, as specified in spec.md §3.
//
// Invariants enforced by the detectors that construct a Group (not by this
// type itself, which is a plain value holder):
//   - len(Duplicates) >= 1
//   - no file ID appears as a duplicate in more than one Group in a report
//   - SimilarityScore is in [0, 1]
type Group struct {
	Kind            Kind    `json:"group_type"`
	Primary         *File   `json:"primary_file"`
	Duplicates      []*File `json:"duplicate_files"`
	SimilarityScore float64 `json:"similarity_score"`
	SavingsBytes    int64   `json:"storage_savings_bytes"`

	// ContainmentScore is set only for KindSupersetSubset groups.
	ContainmentScore float64 `json:"containment_score,omitempty"`
	// Method is set only for KindNear groups.
	Method DetectionMethod `json:"detection_method,omitempty"`
}

// Savings recomputes SavingsBytes from the current Duplicates slice. Called
// whenever a group's duplicate membership changes (e.g. during
// cross-detector reconciliation in the orchestrator).
func (g *Group) Savings() int64 {
	var total int64
	for _, f := range g.Duplicates {
		total += f.Size
	}
	return total
}

// Report is the final output of a scan: the three duplicate-group lists
// plus aggregate counts and capped per-file errors, matching the response
// shape in spec.md §6.
type Report struct {
	TotalFiles      int
	FilesProcessed  int
	FilesFailed     int
	ExactGroups     []*Group
	SupersetGroups  []*Group
	NearGroups      []*Group

	TotalDuplicateGroups     int
	TotalDuplicateFiles      int
	TotalStorageSavingsBytes int64

	Errors []FileError
}

// FileError is a single per-file processing error surfaced in the report.
type FileError struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// maxReportedErrors caps the per-file errors surfaced in the final report,
// per spec.md §4.8.
const maxReportedErrors = 10

// AppendError records a per-file error. FilesFailed counts every call, while
// Errors keeps only the first maxReportedErrors entries, so the cap never
// hides the true failure count.
func (r *Report) AppendError(fileName string, err error) {
	r.FilesFailed++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, FileError{FileName: fileName, Error: err.Error()})
	}
}
