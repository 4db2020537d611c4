package sound

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const userAgent = "song-viewer/1.0 (https://github.com/Ivanipani/song-viewer)"

// fetch retrieves the full resource into memory so the decoders can seek
// freely. Supports http(s) URLs, file:// URLs, and plain filesystem paths.
func (e *Engine) fetch(rawURL string) (io.ReadSeekCloser, error) {
	switch {
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		return e.fetchHTTP(rawURL)
	case strings.HasPrefix(rawURL, "file://"):
		return fetchFile(strings.TrimPrefix(rawURL, "file://"))
	default:
		return fetchFile(rawURL)
	}
}

func (e *Engine) fetchHTTP(rawURL string) (io.ReadSeekCloser, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return memReader{bytes.NewReader(data)}, nil
}

func fetchFile(path string) (io.ReadSeekCloser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return memReader{bytes.NewReader(data)}, nil
}

// memReader adapts a bytes.Reader to the ReadSeekCloser the decoders expect.
type memReader struct {
	*bytes.Reader
}

func (memReader) Close() error { return nil }
