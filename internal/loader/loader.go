package loader

import (
	"context"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/zjy-dev/lcovsum/internal/lcov"
	"github.com/zjy-dev/lcovsum/internal/logger"
)

// Loader reads LCOV traces from a filesystem and parses them.
type Loader struct {
	fs   afero.Fs
	opts lcov.ParseOptions
}

// New creates a Loader. Use afero.NewOsFs() for the real filesystem.
func New(fs afero.Fs, opts lcov.ParseOptions) *Loader {
	return &Loader{fs: fs, opts: opts}
}

// Load reads the whole trace at path and parses it. Read failures come back
// as *lcov.IOError, malformed records as *lcov.ParseError.
func (l *Loader) Load(path string) (*lcov.Document, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, &lcov.IOError{Path: path, Err: err}
	}

	doc, err := lcov.Parse(path, data, l.opts)
	if err != nil {
		return nil, err
	}

	for _, orphan := range doc.Orphans {
		logger.Warnf("skipping record: %v", orphan)
	}
	logger.Debugf("parsed %s: %d bytes, %d files, %d skipped hit records",
		path, len(data), len(doc.Files), len(doc.Orphans))

	return doc, nil
}

// LoadPair loads two traces concurrently. Parsing shares no state, so the
// only coordination is collecting the first error.
func (l *Loader) LoadPair(ctx context.Context, basePath, otherPath string) (*lcov.Document, *lcov.Document, error) {
	var base, other *lcov.Document

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		doc, err := l.Load(basePath)
		base = doc
		return err
	})
	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		doc, err := l.Load(otherPath)
		other = doc
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return base, other, nil
}
