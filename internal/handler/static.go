package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// SPA serves the built frontend from dir. Paths with no matching file fall
// back to index.html so client-side routes resolve. Directories are never
// listed: one without its own index.html gets the fallback too.
func SPA(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if !servable(name) {
			w.Header().Set("Cache-Control", "no-cache")
			http.ServeFile(w, r, index)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// servable reports whether name is a regular file or a directory holding an
// index.html.
func servable(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	idx, err := os.Stat(filepath.Join(name, "index.html"))
	return err == nil && !idx.IsDir()
}
