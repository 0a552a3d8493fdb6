package source

import (
	"errors"
	"path/filepath"
)

// Kind enumerates the loader modalities.
type Kind string

const (
	KindFile Kind = "file"
	KindFS   Kind = "fs"
)

// Source identifies where a document lives.
type Source interface {
	Kind() Kind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Kind() Kind       { return KindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Kind() Kind       { return KindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source naming an entry inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// Document is a raw payload plus its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw bytes read from src.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("source: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin of the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the origin identifier, empty for the zero Document.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
