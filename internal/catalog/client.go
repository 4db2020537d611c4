package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when an optional catalog resource does not exist.
var ErrNotFound = errors.New("resource not found")

const userAgent = "song-viewer/1.0 (https://github.com/Ivanipani/song-viewer)"

// Client fetches the static portfolio documents from their hosting base URL.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		base: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type catalogDoc struct {
	Songs []Track `json:"songs"`
}

type stemsDoc struct {
	Stems []Stem `json:"stems"`
}

type photosDoc struct {
	Photos []string `json:"photos"`
}

// Catalog fetches and validates catalog.json.
// Track URLs are resolved against the client base URL.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var doc catalogDoc
	if err := c.getJSON(ctx, "catalog.json", &doc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		return nil, err
	}
	for i := range doc.Songs {
		doc.Songs[i].URL = c.resolve(doc.Songs[i].URL)
	}
	cat, err := New(doc.Songs)
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return cat, nil
}

// Stems fetches the stem list for a track, sorted by mixing order.
// Returns (nil, nil) when the track has no stem view.
func (c *Client) Stems(ctx context.Context, trackID string) ([]Stem, error) {
	var doc stemsDoc
	err := c.getJSON(ctx, fmt.Sprintf("catalog/%s/stems.json", trackID), &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range doc.Stems {
		for j := range doc.Stems[i].Files {
			doc.Stems[i].Files[j].URL = c.resolve(doc.Stems[i].Files[j].URL)
		}
		if doc.Stems[i].Peaks != "" {
			doc.Stems[i].Peaks = c.resolve(doc.Stems[i].Peaks)
		}
	}
	sort.SliceStable(doc.Stems, func(i, j int) bool {
		return doc.Stems[i].Order < doc.Stems[j].Order
	})
	return doc.Stems, nil
}

// Photos fetches the ordered photo URL list.
// Returns (nil, nil) when the portfolio has no photos document.
func (c *Client) Photos(ctx context.Context) ([]string, error) {
	var doc photosDoc
	err := c.getJSON(ctx, "photos.json", &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range doc.Photos {
		doc.Photos[i] = c.resolve(doc.Photos[i])
	}
	return doc.Photos, nil
}

// Notes fetches the markdown notes for a track.
// Returns ErrNotFound when the track has no notes.
func (c *Client) Notes(ctx context.Context, trackID string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("catalog/%s/notes.md", trackID))
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(data), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	reqURL := c.base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status: %s", path, resp.Status)
	}
	return resp.Body, nil
}

func (c *Client) resolve(ref string) string {
	if ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	return c.base.JoinPath(u.Path).String()
}
