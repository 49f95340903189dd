package ingest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// BatchSource enumerates batch identifiers and opens their row streams.
type BatchSource interface {
	// Batches returns the available batch identifiers.
	Batches(ctx context.Context) ([]string, error)

	// Open returns the row stream for one batch.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource serves every *.csv file of a filesystem directory as a batch.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource wraps a filesystem; batch identifiers are file names at its root.
func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// NewOSDirSource serves batches from a directory on the local filesystem.
func NewOSDirSource(path string) *DirSource {
	return NewDirSource(os.DirFS(path))
}

func (s *DirSource) Batches(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read batch directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open batch %q: %w", name, err)
	}
	return f, nil
}
