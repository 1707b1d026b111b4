package chatfile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/report.csv":
			_, _ = w.Write([]byte("a,b\n1,2\n"))
		case "/files/broken.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)

	t.Run("stages the attachment bytes", func(t *testing.T) {
		t.Parallel()
		staged, err := client.Fetch(context.Background(), "report.csv")
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.Remove(staged) })

		content, err := os.ReadFile(staged)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(content))
	})

	t.Run("missing attachment", func(t *testing.T) {
		t.Parallel()
		_, err := client.Fetch(context.Background(), "unknown.csv")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		_, err := client.Fetch(context.Background(), "broken.csv")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_FetchEscapesName(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte("x"))
	}))
	t.Cleanup(srv.Close)

	staged, err := NewClient(srv.URL).Fetch(context.Background(), "my report.csv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(staged) })

	assert.Equal(t, "/files/my%20report.csv", gotPath)
}

func TestDir_Fetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.csv"), []byte("a\n1\n"), 0o600))

	fetcher := NewDir(dir)

	t.Run("stages a copy", func(t *testing.T) {
		t.Parallel()
		staged, err := fetcher.Fetch(context.Background(), "report.csv")
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.Remove(staged) })

		assert.NotEqual(t, filepath.Join(dir, "report.csv"), staged,
			"the original must stay untouched")

		content, err := os.ReadFile(staged)
		require.NoError(t, err)
		assert.Equal(t, "a\n1\n", string(content))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := fetcher.Fetch(context.Background(), "unknown.csv")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()
		_, err := fetcher.Fetch(context.Background(), "../report.csv")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
