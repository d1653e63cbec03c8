package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/ummet-social/censor/denylist"
)

// ErrReadOnly is returned by writes to a read-only store.
var ErrReadOnly = errors.New("storage: read-only")

// FileAdapter serves terms from a denylist file, re-read on every GetTerms so
// edits are picked up by the next sync.
type FileAdapter struct {
	path string
}

// NewFileAdapter creates a file-backed adapter.
func NewFileAdapter(path string) (*FileAdapter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: file path is empty")
	}
	return &FileAdapter{path: path}, nil
}

func (f *FileAdapter) AddTerm(context.Context, string) error { return ErrReadOnly }

func (f *FileAdapter) RemoveTerm(context.Context, string) error { return ErrReadOnly }

func (f *FileAdapter) GetTerms(context.Context) ([]string, error) {
	d, err := denylist.LoadFile(f.path)
	if err != nil {
		return nil, err
	}
	return d.Terms(), nil
}

func (f *FileAdapter) TermExists(ctx context.Context, term string) (bool, error) {
	terms, err := f.GetTerms(ctx)
	if err != nil {
		return false, err
	}
	want := denylist.Normalize(term)
	for _, t := range terms {
		if strings.EqualFold(t, want) {
			return true, nil
		}
	}
	return false, nil
}
