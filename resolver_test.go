package datastage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher stages a fixed payload, or fails, depending on configuration.
type fakeFetcher struct {
	payload map[string]string // basename -> content
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, name string) (string, error) {
	f.calls = append(f.calls, name)
	content, ok := f.payload[name]
	if !ok {
		return "", errors.New("no such attachment")
	}
	tempFile, err := os.CreateTemp("", "chatfile-*")
	if err != nil {
		return "", err
	}
	if _, err := tempFile.WriteString(content); err != nil {
		return "", err
	}
	return tempFile.Name(), tempFile.Close()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestResolver_FetchSuccess(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{payload: map[string]string{"report.csv": "a,b\n1,2\n"}}
	r := &resolver{fetcher: fetcher, baseDir: t.TempDir(), log: discardLogger()}

	resolved, err := r.resolve(context.Background(), "/home/user/uploads/report.csv")
	require.NoError(t, err)
	defer resolved.cleanup()

	assert.Equal(t, "report.csv", resolved.DisplayName)
	assert.Equal(t, []string{"report.csv"}, fetcher.calls, "only the basename is trusted for lookup")

	// The staged copy must carry the original suffix so the engine's
	// sniffer can key off it.
	assert.True(t, strings.HasSuffix(resolved.Path, ".csv"), "staged path %q should end in .csv", resolved.Path)

	content, err := os.ReadFile(resolved.Path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))
}

func TestResolver_CompressedSuffixPreserved(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{payload: map[string]string{"report.csv.gz": "gzbytes"}}
	r := &resolver{fetcher: fetcher, baseDir: t.TempDir(), log: discardLogger()}

	resolved, err := r.resolve(context.Background(), "report.csv.gz")
	require.NoError(t, err)
	defer resolved.cleanup()

	assert.True(t, strings.HasSuffix(resolved.Path, ".csv.gz"),
		"staged path %q should keep the full .csv.gz suffix", resolved.Path)
}

func TestResolver_FallbackOnFetchFailure(t *testing.T) {
	t.Parallel()

	baseDir := t.TempDir()
	r := &resolver{fetcher: &fakeFetcher{}, baseDir: baseDir, log: discardLogger()}

	t.Run("relative path resolves against base directory", func(t *testing.T) {
		t.Parallel()
		resolved, err := r.resolve(context.Background(), "report.csv")
		require.NoError(t, err, "fallback is not an error state")
		assert.Equal(t, "report.csv", resolved.DisplayName)
		assert.Equal(t, filepath.Join(baseDir, "report.csv"), resolved.Path)
	})

	t.Run("absolute path passes through", func(t *testing.T) {
		t.Parallel()
		resolved, err := r.resolve(context.Background(), "/data/input/report.csv")
		require.NoError(t, err)
		assert.Equal(t, "report.csv", resolved.DisplayName)
		assert.Equal(t, "/data/input/report.csv", resolved.Path)
	})
}

func TestResolver_NilFetcherFallsBack(t *testing.T) {
	t.Parallel()

	baseDir := t.TempDir()
	r := &resolver{baseDir: baseDir, log: discardLogger()}

	resolved, err := r.resolve(context.Background(), "report.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(baseDir, "report.csv"), resolved.Path)
}

func TestResolver_EmptyFilename(t *testing.T) {
	t.Parallel()

	r := &resolver{baseDir: t.TempDir(), log: discardLogger()}

	_, err := r.resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyFilename)
}

func TestResolvedFile_CleanupOnlyRemovesStagedCopies(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keep.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o600))

	resolved := ResolvedFile{DisplayName: "keep.csv", Path: path}
	resolved.cleanup()

	_, err := os.Stat(path)
	assert.NoError(t, err, "fallback paths must never be deleted")
}
