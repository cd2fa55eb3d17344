package openapi

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed spec/onboarding.yaml
var embeddedSpec embed.FS

const defaultSpecPath = "spec/onboarding.yaml"

// Document wraps a raw OpenAPI payload and the location it was read from.
type Document struct {
	location string
	raw      []byte
}

// NewDocument constructs a Document while validating the inputs.
func NewDocument(location string, raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{location: location, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(location string, raw []byte) Document {
	doc, err := NewDocument(location, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// DefaultDocument returns the embedded onboarding API description.
func DefaultDocument() Document {
	raw, err := fs.ReadFile(embeddedSpec, defaultSpecPath)
	if err != nil {
		// The file is compiled in; a failure here is a build defect.
		panic(fmt.Sprintf("openapi: read embedded spec: %v", err))
	}
	return Document{location: defaultSpecPath, raw: raw}
}

// LoadFile reads a document from disk.
func LoadFile(path string) (Document, error) {
	clean := filepath.Clean(path)
	raw, err := os.ReadFile(clean)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: read %s: %w", clean, err)
	}
	return NewDocument(clean, raw)
}

// LoadFS reads a document from an fs.FS.
func LoadFS(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, errors.New("openapi: filesystem is nil")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return NewDocument(name, raw)
}

// Location reports where the document was read from.
func (d Document) Location() string {
	return d.location
}

// Raw returns a copy of the document bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}
