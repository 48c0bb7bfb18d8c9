// Package assets serves the stylesheets and images embedded via go:embed.
// URLs built with Path carry a content fingerprint so they can be cached forever.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
)

// Prefix is the URL path the file server is mounted under.
const Prefix = "/static/"

//go:embed static
var staticFS embed.FS

// hashPattern detects content hashes in filenames (e.g. "site.CU4W1PlC.css").
var hashPattern = regexp.MustCompile(`\.[a-zA-Z0-9_-]{8,}\.`)

var (
	fingerprintsOnce sync.Once
	fingerprints     map[string]string
)

func init() {
	// Errors are ignored: these only fail if the extension format is invalid.
	_ = mime.AddExtensionType(".woff2", "font/woff2")
	_ = mime.AddExtensionType(".webp", "image/webp")
}

// containsHash reports whether the given path contains a content hash.
func containsHash(p string) bool {
	return hashPattern.MatchString(p)
}

// mimeFromExt returns the MIME type for a file extension.
// Falls back to the standard library's MIME database, then to
// "application/octet-stream".
func mimeFromExt(ext string) string {
	switch ext {
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".woff2":
		return "font/woff2"
	case ".svg":
		return "image/svg+xml"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// loadFingerprints hashes every embedded file once.
func loadFingerprints() {
	fingerprints = make(map[string]string)
	err := fs.WalkDir(staticFS, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := staticFS.ReadFile(p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		fingerprints[strings.TrimPrefix(p, "static/")] = hex.EncodeToString(sum[:])[:10]
		return nil
	})
	if err != nil {
		slog.Error("failed to fingerprint static assets", "error", err)
	}
}

// Path returns the public URL for an embedded file, with a ?v= fingerprint
// when the file exists. Unknown names are returned unversioned.
func Path(name string) string {
	fingerprintsOnce.Do(loadFingerprints)
	name = strings.TrimPrefix(name, "/")
	if v, ok := fingerprints[name]; ok {
		return Prefix + name + "?v=" + v
	}
	return Prefix + name
}

// FileServer returns an http.Handler that serves embedded files from static/.
// Fingerprinted or hashed URLs get immutable cache headers; anything else
// gets no-cache. Mount it with http.StripPrefix(Prefix, ...).
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown files and directories 404 before any caching headers are set.
		name := strings.TrimPrefix(r.URL.Path, "/")
		info, err := fs.Stat(sub, name)
		if name == "" || strings.HasSuffix(name, "/") || err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		ext := strings.ToLower(path.Ext(r.URL.Path))
		if ext != "" {
			w.Header().Set("Content-Type", mimeFromExt(ext))
		}

		if r.URL.Query().Get("v") != "" || containsHash(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
