// Package source opens the raw property dataset from wherever it lives:
// bundled into the binary, on local disk, or behind an HTTP endpoint.
package source

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Embedded is the location name that selects the bundled dataset.
const Embedded = "embedded"

//go:embed data/sample.csv
var sampleCSV []byte

// Source opens the dataset for one read. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// EmbeddedSource serves the dataset bundled with the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(sampleCSV)), nil
}

func (EmbeddedSource) String() string { return Embedded }

// FileSource reads the dataset from a local path.
type FileSource struct {
	Path string
}

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return guardReads(fh, f.Path), nil
}

func (f FileSource) String() string { return f.Path }

// FromLocation picks a source: "embedded" or empty for the bundled file,
// an http(s) URL for HTTPSource, anything else is treated as a file path.
func FromLocation(location string, timeout time.Duration) Source {
	loc := strings.TrimSpace(location)
	switch {
	case loc == "" || strings.EqualFold(loc, Embedded):
		return EmbeddedSource{}
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		return NewHTTPSource(loc, WithTimeout(timeout))
	default:
		return FileSource{Path: loc}
	}
}

// guardedBody marks read failures of an opened resource as
// ErrSourceUnavailable so they are not mistaken for bad data.
type guardedBody struct {
	io.ReadCloser
	name string
}

func guardReads(rc io.ReadCloser, name string) io.ReadCloser {
	return &guardedBody{ReadCloser: rc, name: name}
}

func (b *guardedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, ErrSourceUnavailable) {
		err = fmt.Errorf("%w: %s: read: %w", ErrSourceUnavailable, b.name, err)
	}
	return n, err
}
