package relay

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// Assets serves the storefront's three fixed files. No templating, no
// caching headers; files are read per request and written byte-for-byte.
type Assets struct {
	dir string
}

func NewAssets(dir string) *Assets {
	return &Assets{dir: dir}
}

func (s *Assets) AppendRoutes(r chi.Router) {
	r.Get("/", s.serve("index.html", "text/html; charset=utf-8"))
	r.Get("/style.css", s.serve("style.css", "text/css; charset=utf-8"))
	r.Get("/script.js", s.serve("script.js", "text/javascript; charset=utf-8"))
}

func (s *Assets) serve(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
