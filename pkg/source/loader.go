package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader fetches documents.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOption customises the default loader.
type LoaderOption func(*loader)

// WithFileSystem enables SourceFromFS lookups against files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *loader) {
		l.fs = files
	}
}

type loader struct {
	fs fs.FS
}

var _ Loader = (*loader)(nil)

// NewLoader returns a Loader reading files from disk and, when configured,
// entries from an fs.FS.
func NewLoader(options ...LoaderOption) Loader {
	l := &loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

func (l *loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case KindFile:
		data, err = loadFile(src.Location())
	case KindFS:
		data, err = loadFromFS(l.fs, src.Location())
	default:
		err = fmt.Errorf("source loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, err
	}
	return NewDocument(src, data)
}

func loadFile(path string) ([]byte, error) {
	if path == "" || path == "." {
		return nil, errors.New("source loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("source loader: read %s: %w", path, err)
	}
	return data, nil
}

func loadFromFS(files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("source loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("source loader: fs path is required")
	}
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("source loader: read %s: %w", name, err)
	}
	return data, nil
}
