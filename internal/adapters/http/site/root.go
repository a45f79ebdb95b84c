// Package site serves the embedded operator guide.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("docs site serve failed")
)

// Register attaches the embedded guide under /docs/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.StripPrefix("/docs/", http.FileServer(FS()))
	mux.Handle("/docs/", files)
	mux.Handle("/docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
}
