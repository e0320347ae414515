package lcov

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a tagged LCOV record.
type Kind int

const (
	// Unrecognized marks a line this package does not model (DA:, TN:,
	// end_of_record, blank lines, ...). Such lines are skipped.
	Unrecognized Kind = iota
	SourceFile
	FunctionDecl
	FunctionHit
	FunctionsFound
	FunctionsHit
	LinesFound
	LinesHit
	BranchesFound
	BranchesHit
)

// tags maps the text before the first colon to a record kind.
// Branch counters are spelled BRF/BRH; BF/BH are not LCOV tags.
var tags = map[string]Kind{
	"SF":   SourceFile,
	"FN":   FunctionDecl,
	"FNDA": FunctionHit,
	"FNF":  FunctionsFound,
	"FNH":  FunctionsHit,
	"LF":   LinesFound,
	"LH":   LinesHit,
	"BRF":  BranchesFound,
	"BRH":  BranchesHit,
}

// Tag returns the LCOV tag of the kind, including the trailing colon.
func (k Kind) Tag() string {
	for tag, kind := range tags {
		if kind == k {
			return tag + ":"
		}
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case SourceFile:
		return "source file"
	case FunctionDecl:
		return "function declaration"
	case FunctionHit:
		return "function hit count"
	case FunctionsFound:
		return "functions found"
	case FunctionsHit:
		return "functions hit"
	case LinesFound:
		return "lines found"
	case LinesHit:
		return "lines hit"
	case BranchesFound:
		return "branches found"
	case BranchesHit:
		return "branches hit"
	default:
		return "unrecognized"
	}
}

// Record is one classified line of an LCOV trace.
//
// Path is set for SourceFile. Name is set for FunctionDecl and FunctionHit.
// Value holds the line number (FunctionDecl), the hit count (FunctionHit)
// or the counter of a scalar record.
type Record struct {
	Kind  Kind
	Path  string
	Name  string
	Value int
}

// ParseRecord classifies a single line. Lines whose tag is unknown come back
// as an Unrecognized record with a nil error. A known tag with a malformed
// payload yields a *ParseError carrying the tag and the raw line; the caller
// fills in the path and line number.
func ParseRecord(line string) (Record, error) {
	tag, payload, ok := strings.Cut(line, ":")
	if !ok {
		return Record{}, nil
	}
	kind, ok := tags[tag]
	if !ok {
		return Record{}, nil
	}

	rec := Record{Kind: kind}
	switch kind {
	case SourceFile:
		rec.Path = payload
		return rec, nil

	case FunctionDecl, FunctionHit:
		// FN:<line>,<name> and FNDA:<count>,<name>. Only the first comma
		// separates; mangled symbol names may contain more.
		number, name, ok := strings.Cut(payload, ",")
		if !ok {
			return Record{}, newParseError(kind, line, fmt.Errorf("missing ',' before function name"))
		}
		n, err := parseCount(number)
		if err != nil {
			return Record{}, newParseError(kind, line, err)
		}
		rec.Name = name
		rec.Value = n
		return rec, nil

	default:
		n, err := parseCount(payload)
		if err != nil {
			return Record{}, newParseError(kind, line, err)
		}
		rec.Value = n
		return rec, nil
	}
}

// parseCount parses a non-negative decimal integer.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative number %q", s)
	}
	return n, nil
}
