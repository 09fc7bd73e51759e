package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Load reads every document of the form <slug>/<variant>.<ext> from fsys and
// builds an index from them. Files at other depths, with unrecognized
// variant names or with other extensions are skipped. Failing to walk the
// tree is an error.
func Load(fsys fs.FS, opts ...Option) (*Catalog, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var docs []Document
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}

		depth := strings.Count(p, "/")
		name := d.Name()

		if d.IsDir() {
			// Only <slug> directories directly under the root are visited.
			if depth > 0 || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if depth != 1 || strings.HasPrefix(name, ".") {
			return nil
		}

		ext := strings.ToLower(path.Ext(name))
		if !hasExtension(o.extensions, ext) {
			return nil
		}
		base := strings.TrimSuffix(name, path.Ext(name))
		v, verr := ParseVariant(base)
		if verr != nil || base == "" {
			o.logger.Debug("skipping unrecognized document", zap.String("path", p))
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, Document{
			Slug:    path.Dir(p),
			Variant: v,
			Text:    string(data),
			Path:    p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	return Build(docs, opts...), nil
}

// LoadDir is Load over the directory root on the local filesystem
func LoadDir(root string, opts ...Option) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}
	return Load(os.DirFS(root), opts...)
}

func hasExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
