// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// Error constants.
var (
	ErrServe = errors.New("swagger serve failed")
)

var (
	jsonOnce sync.Once
	jsonDoc  []byte
	jsonErr  error
)

// Register attaches the docs routes to r.
//
//	GET /api-docs       -> ReDoc HTML
//	GET /openapi.yaml   -> embedded OpenAPI document
//	GET /openapi.json   -> the same document as JSON
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		doc, err := JSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(doc)
	})
}

// JSON returns the OpenAPI document converted to JSON. The result is cached.
func JSON() ([]byte, error) {
	jsonOnce.Do(func() {
		var doc map[string]any
		if err := yaml.Unmarshal(OpenAPI, &doc); err != nil {
			jsonErr = fmt.Errorf("%w: decode openapi.yaml: %w", ErrServe, err)
			return
		}
		jsonDoc, jsonErr = json.Marshal(doc)
		if jsonErr != nil {
			jsonErr = fmt.Errorf("%w: %w", ErrServe, jsonErr)
		}
	})
	return jsonDoc, jsonErr
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>TalentFlow API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc spec-url="/openapi.yaml"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`
