package lcov

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
)

// maxLineSize bounds a single trace line. Mangled Rust and C++ symbol names
// in FN/FNDA records easily exceed bufio's 64 KiB default.
const maxLineSize = 16 * 1024 * 1024

// OrphanPolicy decides what happens to an FNDA record whose function was
// never declared in the current section.
type OrphanPolicy int

const (
	// SkipOrphans drops the record and keeps the error on Document.Orphans.
	SkipOrphans OrphanPolicy = iota
	// AbortOnOrphan fails the parse with the *LookupError.
	AbortOnOrphan
)

func (p OrphanPolicy) String() string {
	if p == AbortOnOrphan {
		return "abort"
	}
	return "skip"
}

// ParseOrphanPolicy converts "skip" or "abort" to an OrphanPolicy.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch s {
	case "skip", "":
		return SkipOrphans, nil
	case "abort":
		return AbortOnOrphan, nil
	default:
		return SkipOrphans, fmt.Errorf("unknown orphan policy %q (want skip or abort)", s)
	}
}

// ParseOptions configures Parse.
type ParseOptions struct {
	OnOrphan OrphanPolicy
}

// builder folds records into a document. current is the index of the most
// recently opened section, or -1 before the first SF record.
type builder struct {
	doc     *Document
	current int
	opts    ParseOptions
}

// Parse reads every line of data, in order, into a Document named name.
// Unrecognized lines are skipped. A malformed known record fails the whole
// parse with a *ParseError.
func Parse(name string, data []byte, opts ParseOptions) (*Document, error) {
	b := &builder{
		doc:     &Document{Name: name},
		current: -1,
		opts:    opts,
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		rec, err := ParseRecord(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Path = name
				perr.Line = lineNo
			}
			return nil, err
		}
		if err := b.apply(rec, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s after line %d: %w", name, lineNo, err)
	}

	return b.doc, nil
}

// apply folds one record into the document.
func (b *builder) apply(rec Record, lineNo int) error {
	if rec.Kind == SourceFile {
		b.doc.Files = append(b.doc.Files, NewFileCoverage(rec.Path))
		b.current = len(b.doc.Files) - 1
		return nil
	}
	if rec.Kind == Unrecognized || b.current < 0 {
		return nil
	}

	file := b.doc.Files[b.current]
	switch rec.Kind {
	case FunctionDecl:
		// A repeated declaration resets the hit count.
		file.FunctionHits[rec.Name] = 0
	case FunctionHit:
		if _, ok := file.FunctionHits[rec.Name]; !ok {
			lerr := &LookupError{
				Path:     b.doc.Name,
				Line:     lineNo,
				File:     file.Path,
				Function: rec.Name,
			}
			if b.opts.OnOrphan == AbortOnOrphan {
				return lerr
			}
			b.doc.Orphans = append(b.doc.Orphans, lerr)
			return nil
		}
		file.FunctionHits[rec.Name] = rec.Value
	case FunctionsFound:
		file.FunctionsFound = rec.Value
	case FunctionsHit:
		file.FunctionsHit = rec.Value
	case LinesFound:
		file.LinesFound = rec.Value
	case LinesHit:
		file.LinesHit = rec.Value
	case BranchesFound:
		file.BranchesFound = rec.Value
	case BranchesHit:
		file.BranchesHit = rec.Value
	}
	return nil
}
