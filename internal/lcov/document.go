package lcov

// FileCoverage holds the counters of one SF section.
type FileCoverage struct {
	Path string

	// FunctionHits maps a function symbol to its hit count. Only names
	// declared by an FN record of this section appear here.
	FunctionHits map[string]int

	FunctionsFound int
	FunctionsHit   int
	LinesFound     int
	LinesHit       int
	BranchesFound  int
	BranchesHit    int
}

// NewFileCoverage returns an empty section for the given source path.
func NewFileCoverage(path string) *FileCoverage {
	return &FileCoverage{
		Path:         path,
		FunctionHits: make(map[string]int),
	}
}

// Document is a parsed LCOV trace. Files keep the order of their SF records.
// A Document is not modified after Parse returns it.
type Document struct {
	// Name identifies the input, usually the trace's file path.
	Name  string
	Files []*FileCoverage

	// Orphans lists FNDA records that were skipped because their function
	// was never declared. Empty unless parsed with SkipOrphans.
	Orphans []*LookupError
}

