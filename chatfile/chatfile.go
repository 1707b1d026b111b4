// Package chatfile retrieves chat-uploaded attachments and stages them as
// local temporary files so they can be read like any other file.
//
// The attachment store is an external collaborator: it maps a bare basename
// (the name the user uploaded under) to the file's bytes. Implementations
// stage those bytes under os.TempDir and hand back the staged path; callers
// own the staged copy and may rename or delete it.
package chatfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound indicates the attachment store has no file under the
// requested name.
var ErrNotFound = errors.New("chatfile: file not found")

// Fetcher stages an attachment identified by basename as a local temporary
// file and returns its path.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// Client fetches attachments from an HTTP attachment store. A GET request
// for {baseURL}/files/{name} must answer with the file's bytes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the attachment store at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the named attachment and stages it as a temporary file.
// The staged filename does not preserve the attachment's extension; callers
// that need the extension must rename the staged copy themselves.
func (c *Client) Fetch(ctx context.Context, name string) (string, error) {
	reqURL := c.baseURL + "/files/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("chatfile: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatfile: fetch %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("chatfile: fetch %q: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("chatfile: fetch %q: unexpected status %s", name, resp.Status)
	}

	return stage(resp.Body)
}

// Dir serves attachments from a local directory. It stages a copy rather
// than returning the original path so callers can rename or delete the
// result without touching the source, matching Client behavior.
type Dir struct {
	dir string
}

// NewDir creates a Dir backed by the given directory.
func NewDir(dir string) *Dir {
	return &Dir{dir: dir}
}

// Fetch copies the named file out of the directory into a staged temporary
// file. Only bare basenames are accepted; path separators in name are
// rejected to keep lookups inside the directory.
func (d *Dir) Fetch(ctx context.Context, name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == "" {
		return "", fmt.Errorf("chatfile: invalid attachment name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(filepath.Join(d.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("chatfile: fetch %q: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("chatfile: fetch %q: %w", name, err)
	}
	defer src.Close()

	return stage(src)
}

// stage copies r into a fresh temporary file and returns its path.
func stage(r io.Reader) (string, error) {
	tempFile, err := os.CreateTemp("", "chatfile-*")
	if err != nil {
		return "", fmt.Errorf("chatfile: create temp file: %w", err)
	}

	if _, err := io.Copy(tempFile, r); err != nil {
		closeErr := tempFile.Close()
		removeErr := os.Remove(tempFile.Name())
		return "", errors.Join(
			fmt.Errorf("chatfile: stage content: %w", err),
			closeErr,
			removeErr,
		)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("chatfile: close staged file: %w", err)
	}
	return tempFile.Name(), nil
}
