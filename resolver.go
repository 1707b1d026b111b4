package datastage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"datastage/chatfile"
)

// ResolvedFile pairs the caller-facing name of an input file with the
// concrete path its bytes can be read from. Transient; nothing is
// persisted.
type ResolvedFile struct {
	// DisplayName is the original basename, used in reports and as the
	// source for derived table names
	DisplayName string
	// Path is the readable location of the file's bytes
	Path string
	// staged reports whether Path is a staged temporary copy owned by us
	staged bool
}

// resolver reconciles a model-supplied filename with a readable file.
// The filename may be absolute, relative, or a bare basename, and the model
// frequently gets the directory part wrong, so only the basename is trusted
// for attachment lookup.
type resolver struct {
	fetcher chatfile.Fetcher
	baseDir string
	log     *slog.Logger
}

// resolve produces a ResolvedFile for filename.
//
// The basename is fetched from the attachment store, which stages a
// temporary copy. Staged names do not keep the original extension, which
// the engine's sniffer needs, so the staged copy is renamed to carry the
// original suffix. Any failure along that path falls back to treating the
// supplied string as a direct filesystem path; the fallback is logged but
// is not an error. Only a later read of the fallback path can fail.
func (r *resolver) resolve(ctx context.Context, filename string) (ResolvedFile, error) {
	if strings.TrimSpace(filename) == "" {
		return ResolvedFile{}, ErrEmptyFilename
	}

	basename := filepath.Base(filename)

	if r.fetcher != nil {
		staged, err := r.fetchStaged(ctx, basename, formatSuffix(basename))
		if err == nil {
			return ResolvedFile{DisplayName: basename, Path: staged, staged: true}, nil
		}
		r.log.Warn("attachment retrieval failed, using filename as direct path",
			"filename", basename, "error", err)
	}

	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return ResolvedFile{DisplayName: basename, Path: path}, nil
}

// fetchStaged fetches basename from the attachment store and renames the
// staged copy so its suffix matches the original file's suffix.
func (r *resolver) fetchStaged(ctx context.Context, basename, suffix string) (string, error) {
	staged, err := r.fetcher.Fetch(ctx, basename)
	if err != nil {
		return "", err
	}

	if suffix == "" || strings.HasSuffix(staged, suffix) {
		return staged, nil
	}

	renamed := staged + suffix
	if err := os.Rename(staged, renamed); err != nil {
		_ = os.Remove(staged)
		return "", err
	}
	return renamed, nil
}

// formatSuffix returns the full format suffix of basename, compression
// extension included: "report.csv.gz" yields ".csv.gz". The engine and the
// normalizer both key off the complete suffix, so a bare filepath.Ext is
// not enough. Unrecognized formats fall back to the last extension.
func formatSuffix(basename string) string {
	kind, comp := detectFormat(basename)
	if kind == kindUnsupported {
		return filepath.Ext(basename)
	}
	return kind.extension() + comp.extension()
}

// cleanup removes the staged copy, if any.
func (f ResolvedFile) cleanup() {
	if f.staged {
		_ = os.Remove(f.Path)
	}
}
