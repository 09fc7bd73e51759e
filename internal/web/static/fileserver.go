// Package static serves the prebuilt single-page front end.
package static

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/patternbook/patternbook/internal/web/cache"
	"github.com/patternbook/patternbook/internal/web/response"
)

// FileServerConfig holds configuration for the static file server
type FileServerConfig struct {
	// FS is the bundle to serve, typically os.DirFS(server.static_dir)
	FS fs.FS

	// Prefix is the URL prefix to strip (e.g., "/static")
	Prefix string

	// MaxAge is the cache duration in seconds for assets other than the index file
	MaxAge int

	// IndexFile is the default file to serve for directories (default: "index.html")
	IndexFile string

	// SPAFallback serves the root index file for extensionless paths that do
	// not exist, so client-side routes like /pattern/observer/solution load the app.
	SPAFallback bool

	// NotFoundHandler is called when a file is not found
	NotFoundHandler http.HandlerFunc
}

// DefaultFileServerConfig returns default static file server configuration
func DefaultFileServerConfig(fsys fs.FS) *FileServerConfig {
	return &FileServerConfig{
		FS:          fsys,
		MaxAge:      31536000, // 1 year
		IndexFile:   "index.html",
		SPAFallback: true,
	}
}

// FileServer creates a static file server over config.FS
func FileServer(config *FileServerConfig) http.Handler {
	if config.IndexFile == "" {
		config.IndexFile = "index.html"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.RenderMethodNotAllowed(w, []string{http.MethodGet, http.MethodHead})
			return
		}

		urlPath := r.URL.Path
		if config.Prefix != "" {
			urlPath = strings.TrimPrefix(urlPath, config.Prefix)
		}
		// path.Clean of a rooted path never climbs above "/".
		name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
		if name == "" {
			name = "."
		}
		if !fs.ValidPath(name) {
			response.RenderBadRequest(w, "invalid path")
			return
		}

		err := serveName(w, r, config, name)
		if err == nil {
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			response.RenderInternalError(w)
			return
		}

		if config.SPAFallback && path.Ext(name) == "" {
			if err := serveName(w, r, config, config.IndexFile); err == nil {
				return
			}
		}

		if config.NotFoundHandler != nil {
			config.NotFoundHandler(w, r)
			return
		}
		response.RenderNotFound(w, "")
	})
}

// NewFileServer creates a static file server with default configuration
func NewFileServer(fsys fs.FS, prefix string) http.Handler {
	config := DefaultFileServerConfig(fsys)
	config.Prefix = prefix
	return FileServer(config)
}

// serveName writes the file or directory index at name. It returns an error
// wrapping fs.ErrNotExist when nothing servable is there, before writing anything.
func serveName(w http.ResponseWriter, r *http.Request, config *FileServerConfig, name string) error {
	info, err := fs.Stat(config.FS, name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		name = path.Join(name, config.IndexFile)
		info, err = fs.Stat(config.FS, name)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
	}

	f, err := config.FS.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(data)
	}

	h := w.Header()
	h.Set("Content-Type", detectContentType(name))
	h.Set("ETag", fileETag(info))
	if path.Base(name) == config.IndexFile {
		// The shell references hashed assets; it must always revalidate.
		h.Set("Cache-Control", "no-cache")
	} else {
		h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", config.MaxAge))
	}

	http.ServeContent(w, r, name, modTime(info), content)
	return nil
}

func modTime(info fs.FileInfo) time.Time {
	t := info.ModTime()
	if t.IsZero() || t.Unix() <= 0 {
		return time.Time{}
	}
	return t
}

// fileETag derives a weak validator from size and modification time
func fileETag(info fs.FileInfo) string {
	return cache.WeakETag(fmt.Sprintf(`"%x-%x"`, info.Size(), info.ModTime().UnixNano()))
}

var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".mjs":   "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".map":   "application/json; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// detectContentType detects the content type from file extension
func detectContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
