package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"clipcast/internal/publish"
	"clipcast/pkg/httputil"
)

const (
	defaultUploadURL    = "https://www.googleapis.com/upload/youtube/v3/videos"
	defaultVideosURL    = "https://www.googleapis.com/youtube/v3/videos"
	defaultThumbnailURL = "https://www.googleapis.com/upload/youtube/v3/thumbnails/set"
	watchURLFormat      = "https://youtube.com/watch?v=%s"
)

// Client issues the three media calls against the YouTube Data API. Each call
// is a single attempt with no retry; credentials arrive per call, never from
// process-wide configuration.
type Client struct {
	httpClient   *http.Client
	uploadURL    string
	videosURL    string
	thumbnailURL string
}

// NewClient wraps the given http.Client; nil falls back to the default
// transport (and its default timeout behavior).
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient:   httpClient,
		uploadURL:    defaultUploadURL,
		videosURL:    defaultVideosURL,
		thumbnailURL: defaultThumbnailURL,
	}
}

// authClient builds a per-request client whose transport attaches the bearer
// credential exactly once, regardless of how the caller formatted it.
func (c *Client) authClient(ctx context.Context, token string) *http.Client {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: httputil.NormalizeBearer(token),
		TokenType:   "Bearer",
	})
	return oauth2.NewClient(ctx, src)
}

type insertResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
		PublishAt     string `json:"publishAt"`
	} `json:"status"`
}

// Insert posts the multipart body to the media-insert endpoint and returns
// the created media record. A non-2xx answer or a 2xx without an id is fatal.
func (c *Client) Insert(ctx context.Context, body io.Reader, contentType string, size int64, token string) (*insertResponse, error) {
	url := fmt.Sprintf("%s?uploadType=multipart&part=snippet,status", c.uploadURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.authClient(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &publish.UploadError{Status: resp.StatusCode, Body: httputil.ReadBody(resp)}
	}

	var inserted insertResponse
	if err := httputil.DecodeJSON(resp, &inserted); err != nil {
		return nil, err
	}
	if inserted.ID == "" {
		return nil, publish.ErrMissingMediaID
	}

	return &inserted, nil
}

// Status re-queries the created item's privacy state. Used only for the
// post-upload verification step; the platform's write is eventually
// consistent, so callers treat problems here as soft.
func (c *Client) Status(ctx context.Context, mediaID, token string) (string, error) {
	url := fmt.Sprintf("%s?part=status&id=%s", c.videosURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.authClient(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query video status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status query failed with status %d: %s", resp.StatusCode, httputil.ReadBody(resp))
	}

	var listed struct {
		Items []struct {
			Status struct {
				PrivacyStatus string `json:"privacyStatus"`
			} `json:"status"`
		} `json:"items"`
	}
	if err := httputil.DecodeJSON(resp, &listed); err != nil {
		return "", err
	}
	if len(listed.Items) == 0 {
		return "", fmt.Errorf("video %s not found in status query", mediaID)
	}

	return listed.Items[0].Status.PrivacyStatus, nil
}

// SetThumbnail attaches a still image to an already-created video. This is an
// independent call: its failure never invalidates the upload itself.
func (c *Client) SetThumbnail(ctx context.Context, mediaID string, image io.Reader, contentType string, size int64, token string) error {
	url := fmt.Sprintf("%s?videoId=%s", c.thumbnailURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, image)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.authClient(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("thumbnail set failed with status %d: %s", resp.StatusCode, httputil.ReadBody(resp))
	}

	return nil
}
