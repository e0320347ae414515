package coverage

import (
	"fmt"
	"math"

	"github.com/zjy-dev/lcovsum/internal/lcov"
)

// Percent is a coverage ratio scaled to 0-100. It is NaN when nothing was
// found, which is a valid "undefined" value rather than an error.
type Percent float64

// Undefined is the Percent reported for a zero found count.
var Undefined = Percent(math.NaN())

// Ratio returns hit/found*100, or Undefined when found is zero.
func Ratio(hit, found int) Percent {
	if found == 0 {
		return Undefined
	}
	return Percent(float64(hit) / float64(found) * 100)
}

// Defined reports whether p holds a number.
func (p Percent) Defined() bool {
	return !math.IsNaN(float64(p))
}

// String formats p with two decimals, or "n/a" when undefined.
func (p Percent) String() string {
	if !p.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", float64(p))
}

// Summary holds line and function totals for a whole trace or one file.
// Branch counters are not summarized.
type Summary struct {
	Name string

	TotalLinesFound     int
	TotalLinesHit       int
	TotalFunctionsFound int
	TotalFunctionsHit   int
}

// LinesPercentage returns the line coverage.
func (s Summary) LinesPercentage() Percent {
	return Ratio(s.TotalLinesHit, s.TotalLinesFound)
}

// FunctionsPercentage returns the function coverage.
func (s Summary) FunctionsPercentage() Percent {
	return Ratio(s.TotalFunctionsHit, s.TotalFunctionsFound)
}

func (s *Summary) add(f *lcov.FileCoverage) {
	s.TotalLinesFound += f.LinesFound
	s.TotalLinesHit += f.LinesHit
	s.TotalFunctionsFound += f.FunctionsFound
	s.TotalFunctionsHit += f.FunctionsHit
}

// Summarize sums the counters of every file in doc.
func Summarize(doc *lcov.Document) Summary {
	s := Summary{Name: doc.Name}
	for _, f := range doc.Files {
		s.add(f)
	}
	return s
}

// SummarizeFile returns the counters of a single section, named by its path.
func SummarizeFile(f *lcov.FileCoverage) Summary {
	s := Summary{Name: f.Path}
	s.add(f)
	return s
}
