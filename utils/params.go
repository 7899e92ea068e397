package utils

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// PathParam returns the named route parameter decoded once.
// chi matches on the escaped path whenever the request carries one, so the
// raw value still holds sequences like %40 in that case.
func PathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL == nil || r.URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", fmt.Errorf("invalid path parameter %q: %w", name, err)
	}
	return decoded, nil
}
