package coverage

import "github.com/zjy-dev/lcovsum/internal/lcov"

// Delta is the signed change of one metric between two summaries.
// Negative values are regressions.
type Delta struct {
	Hit        int
	Found      int
	Percentage Percent // undefined if either side is undefined
}

// SummaryDiff holds the line and function deltas between two summaries.
type SummaryDiff struct {
	Lines     Delta
	Functions Delta
}

// Diff returns other minus base for every metric.
func Diff(base, other Summary) SummaryDiff {
	return SummaryDiff{
		Lines: Delta{
			Hit:        other.TotalLinesHit - base.TotalLinesHit,
			Found:      other.TotalLinesFound - base.TotalLinesFound,
			Percentage: other.LinesPercentage() - base.LinesPercentage(),
		},
		Functions: Delta{
			Hit:        other.TotalFunctionsHit - base.TotalFunctionsHit,
			Found:      other.TotalFunctionsFound - base.TotalFunctionsFound,
			Percentage: other.FunctionsPercentage() - base.FunctionsPercentage(),
		},
	}
}

// FileStatus tells on which side of a comparison a file was found.
type FileStatus int

const (
	Matched FileStatus = iota
	Added              // only in the other document
	Removed            // only in the base document
)

func (s FileStatus) String() string {
	switch s {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "matched"
	}
}

// FileDiff compares one source path across two documents. The side a file
// is missing from is an all-zero Summary.
type FileDiff struct {
	Path   string
	Status FileStatus
	Base   Summary
	Other  Summary
	Diff   SummaryDiff
}

// DiffFiles matches sections of base and other by exact path. Sections that
// repeat a path within one document are summed first. Results follow base
// order, then files only present in other, in other's order.
func DiffFiles(base, other *lcov.Document) []FileDiff {
	baseOrder, baseByPath := summarizeByPath(base)
	otherOrder, otherByPath := summarizeByPath(other)

	diffs := make([]FileDiff, 0, len(baseOrder))
	for _, path := range baseOrder {
		b := baseByPath[path]
		o, ok := otherByPath[path]
		status := Matched
		if !ok {
			status = Removed
			o = Summary{Name: path}
		}
		diffs = append(diffs, FileDiff{Path: path, Status: status, Base: b, Other: o, Diff: Diff(b, o)})
	}
	for _, path := range otherOrder {
		if _, ok := baseByPath[path]; ok {
			continue
		}
		b := Summary{Name: path}
		o := otherByPath[path]
		diffs = append(diffs, FileDiff{Path: path, Status: Added, Base: b, Other: o, Diff: Diff(b, o)})
	}
	return diffs
}

func summarizeByPath(doc *lcov.Document) ([]string, map[string]Summary) {
	var order []string
	byPath := make(map[string]Summary, len(doc.Files))
	for _, f := range doc.Files {
		s, seen := byPath[f.Path]
		if !seen {
			order = append(order, f.Path)
			s.Name = f.Path
		}
		s.add(f)
		byPath[f.Path] = s
	}
	return order, byPath
}
