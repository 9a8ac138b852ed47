package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clipcast/internal/publish"
	"clipcast/internal/storage"
)

type memStore map[string][]byte

func (m memStore) Get(ctx context.Context, path string) (*storage.Object, error) {
	data, ok := m[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: "video/mp4",
	}, nil
}

func (m memStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range m {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

type recordingPipeline struct {
	platform publish.Platform
	lastReq  publish.Request
	result   *publish.Result
	err      error
}

func (p *recordingPipeline) Upload(ctx context.Context, req publish.Request) (*publish.Result, error) {
	p.lastReq = req
	return p.result, p.err
}

func (p *recordingPipeline) Platform() publish.Platform {
	return p.platform
}

func newTestServer(apiKey string, store memStore, pipelines ...publish.Pipeline) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defaults := Defaults{CategoryID: "22", Privacy: "private", DefaultTags: []string{"clipcast"}}
	return New(publish.NewRouter(pipelines...), store, apiKey, "videos/", defaults, logger)
}

func validPublishBody() map[string]any {
	return map[string]any{
		"platform":    "youtube",
		"videoPath":   "videos/clip.mp4",
		"title":       "T",
		"description": "D",
		"accessToken": "abc123",
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer("secret", memStore{})

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestServerRequiresAPIKey(t *testing.T) {
	srv := newTestServer("secret", memStore{})
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/videos", "wrong", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/videos", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}
}

func TestServerPublish(t *testing.T) {
	pipeline := &recordingPipeline{
		platform: publish.PlatformYouTube,
		result:   &publish.Result{MediaID: "vid123", URL: "https://youtube.com/watch?v=vid123", Privacy: "private"},
	}
	store := memStore{"videos/clip.mp4": []byte("mp4-bytes")}
	srv := newTestServer("secret", store, pipeline)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/publish", "secret", validPublishBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result publish.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.MediaID != "vid123" {
		t.Errorf("mediaId = %q, want vid123", result.MediaID)
	}

	// Defaults fill fields the caller omitted.
	if pipeline.lastReq.Meta.CategoryID != "22" {
		t.Errorf("categoryId = %q, want default 22", pipeline.lastReq.Meta.CategoryID)
	}
	if pipeline.lastReq.Meta.Privacy != "private" {
		t.Errorf("privacy = %q, want default private", pipeline.lastReq.Meta.Privacy)
	}
	if len(pipeline.lastReq.Meta.Tags) != 1 || pipeline.lastReq.Meta.Tags[0] != "clipcast" {
		t.Errorf("tags = %v, want default", pipeline.lastReq.Meta.Tags)
	}
	if pipeline.lastReq.Size != int64(len("mp4-bytes")) {
		t.Errorf("media size = %d", pipeline.lastReq.Size)
	}
}

func TestServerPublishValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missingPlatform", mutate: func(m map[string]any) { delete(m, "platform") }},
		{name: "missingVideoPath", mutate: func(m map[string]any) { delete(m, "videoPath") }},
		{name: "missingTitle", mutate: func(m map[string]any) { delete(m, "title") }},
		{name: "missingDescription", mutate: func(m map[string]any) { delete(m, "description") }},
		{name: "missingAccessToken", mutate: func(m map[string]any) { delete(m, "accessToken") }},
	}

	srv := newTestServer("", memStore{})
	h := srv.Routes()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validPublishBody()
			tt.mutate(body)

			rec := doJSON(t, h, http.MethodPost, "/api/v1/publish", "", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServerPublishInvalidJSON(t *testing.T) {
	srv := newTestServer("", memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/publish", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServerPublishMissingObject(t *testing.T) {
	pipeline := &recordingPipeline{platform: publish.PlatformYouTube}
	srv := newTestServer("", memStore{}, pipeline)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/publish", "", validPublishBody())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServerPublishErrorMapping(t *testing.T) {
	store := memStore{"videos/clip.mp4": []byte("mp4-bytes")}

	tests := []struct {
		name     string
		platform string
		err      error
		want     int
	}{
		{name: "notImplemented", platform: "bilibili", err: publish.ErrNotImplemented, want: http.StatusNotImplemented},
		{name: "unknownPlatform", platform: "vimeo", want: http.StatusBadRequest},
		{name: "invalidSchedule", platform: "youtube", err: &publish.InvalidScheduleTimeError{Value: "x"}, want: http.StatusBadRequest},
		{name: "uploadFailure", platform: "youtube", err: &publish.UploadError{Status: 403, Body: "quota"}, want: http.StatusBadGateway},
		{name: "missingMediaID", platform: "youtube", err: publish.ErrMissingMediaID, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yt := &recordingPipeline{platform: publish.PlatformYouTube, err: tt.err}
			bb := &recordingPipeline{platform: publish.PlatformBilibili, err: tt.err}
			srv := newTestServer("", store, yt, bb)

			body := validPublishBody()
			body["platform"] = tt.platform

			rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/publish", "", body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestServerListVideos(t *testing.T) {
	store := memStore{
		"videos/a.mp4": []byte("a"),
		"thumbs/b.png": []byte("b"),
	}
	srv := newTestServer("", store)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp["videos"]) != 1 || resp["videos"][0] != "videos/a.mp4" {
		t.Errorf("videos = %v, want [videos/a.mp4]", resp["videos"])
	}
}

func TestServerListVideosEmpty(t *testing.T) {
	srv := newTestServer("", memStore{})

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"videos":[]`) {
		t.Errorf("body = %s, want empty array not null", rec.Body.String())
	}
}
