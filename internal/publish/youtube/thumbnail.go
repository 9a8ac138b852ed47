package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"clipcast/internal/publish"
)

const (
	defaultThumbnailType = "image/jpeg"
	presetURLFormat      = "https://i.ytimg.com/vi/%s/%s.jpg"
)

// selectCandidate picks the first candidate with a usable source, in the
// caller's priority order.
func selectCandidate(candidates []publish.ThumbnailCandidate) (publish.ThumbnailCandidate, bool) {
	for _, c := range candidates {
		if c.Source != "" {
			return c, true
		}
	}
	return publish.ThumbnailCandidate{}, false
}

// isRemoteURL classifies a locator by shape: absolute http(s) URLs are
// fetched remotely, everything else goes through the object store.
func isRemoteURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

type thumbnailImage struct {
	data        []byte
	contentType string
}

// resolveThumbnail fetches the candidate's bytes from wherever its locator
// points. The content type falls back to image/jpeg when the source does not
// declare one.
func (p *Pipeline) resolveThumbnail(ctx context.Context, source string) (*thumbnailImage, error) {
	if isRemoteURL(source) {
		return p.fetchRemote(ctx, source)
	}
	return p.fetchStored(ctx, source)
}

func (p *Pipeline) fetchRemote(ctx context.Context, rawURL string) (*thumbnailImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail fetch failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultThumbnailType
	}
	return &thumbnailImage{data: data, contentType: contentType}, nil
}

func (p *Pipeline) fetchStored(ctx context.Context, path string) (*thumbnailImage, error) {
	obj, err := p.store.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail object %s: %w", path, err)
	}
	defer func() { _ = obj.Body.Close() }()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail object %s: %w", path, err)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultThumbnailType
	}
	return &thumbnailImage{data: data, contentType: contentType}, nil
}

// presetThumbnails derives the platform's well-known thumbnail URLs from the
// media id alone. These exist for every video without any further call.
func presetThumbnails(mediaID string) map[string]string {
	return map[string]string{
		"default":  fmt.Sprintf(presetURLFormat, mediaID, "default"),
		"medium":   fmt.Sprintf(presetURLFormat, mediaID, "mqdefault"),
		"high":     fmt.Sprintf(presetURLFormat, mediaID, "hqdefault"),
		"standard": fmt.Sprintf(presetURLFormat, mediaID, "sddefault"),
		"maxres":   fmt.Sprintf(presetURLFormat, mediaID, "maxresdefault"),
	}
}
