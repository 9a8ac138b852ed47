package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"clipcast/internal/publish"
	"clipcast/internal/storage"
)

type publishRequest struct {
	Platform             string   `json:"platform"`
	VideoPath            string   `json:"videoPath"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Tags                 []string `json:"tags"`
	CategoryID           string   `json:"categoryId"`
	PrivacyStatus        string   `json:"privacyStatus"`
	ScheduledPublishTime string   `json:"scheduledPublishTime"`
	AccessToken          string   `json:"accessToken"`
	ThumbnailHigh        string   `json:"thumbnailHigh"`
	ThumbnailMedium      string   `json:"thumbnailMedium"`
	Thumbnail            string   `json:"thumbnail"` // legacy single-thumbnail field
}

func (r *publishRequest) validate() error {
	switch {
	case r.Platform == "":
		return fmt.Errorf("platform is required")
	case r.VideoPath == "":
		return fmt.Errorf("videoPath is required")
	case r.Title == "":
		return fmt.Errorf("title is required")
	case r.Description == "":
		return fmt.Errorf("description is required")
	case r.AccessToken == "":
		return fmt.Errorf("accessToken is required")
	}
	return nil
}

// thumbnailCandidates orders the caller's locators by priority: the
// high-resolution one wins, then medium, then the legacy field.
func (r *publishRequest) thumbnailCandidates() []publish.ThumbnailCandidate {
	return []publish.ThumbnailCandidate{
		{Name: "high", Source: r.ThumbnailHigh},
		{Name: "medium", Source: r.ThumbnailMedium},
		{Name: "default", Source: r.Thumbnail},
	}
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	obj, err := s.store.Get(ctx, req.VideoPath)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("video object %s not found", req.VideoPath))
		return
	}
	if err != nil {
		s.logger.Error("storage read failed", "id", requestID(ctx), "path", req.VideoPath, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read video object")
		return
	}
	defer func() { _ = obj.Body.Close() }()

	categoryID := req.CategoryID
	if categoryID == "" {
		categoryID = s.defaults.CategoryID
	}
	tags := req.Tags
	if len(tags) == 0 {
		tags = s.defaults.DefaultTags
	}
	privacy := req.PrivacyStatus
	if privacy == "" {
		privacy = s.defaults.Privacy
	}

	result, err := s.router.Dispatch(ctx, req.Platform, publish.Request{
		Media: obj.Body,
		Size:  obj.Size,
		Meta: publish.Metadata{
			Title:       req.Title,
			Description: req.Description,
			Tags:        tags,
			CategoryID:  categoryID,
			Privacy:     privacy,
		},
		AccessToken:        req.AccessToken,
		ScheduledPublishAt: req.ScheduledPublishTime,
		Thumbnails:         req.thumbnailCandidates(),
	})
	if err != nil {
		s.logger.Error("publish failed", "id", requestID(ctx), "platform", req.Platform, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}

	s.logger.Info("publish succeeded", "id", requestID(ctx), "platform", req.Platform, "media_id", result.MediaID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context(), s.mediaPrefix)
	if err != nil {
		s.logger.Error("list failed", "id", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"videos": names})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorStatus maps the publish error taxonomy onto HTTP status codes:
// validation problems are the caller's fault, platform failures are upstream.
func errorStatus(err error) int {
	var unsupported *publish.UnsupportedPlatformError
	var schedule *publish.InvalidScheduleTimeError
	var upload *publish.UploadError

	switch {
	case errors.Is(err, publish.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.As(err, &unsupported), errors.As(err, &schedule):
		return http.StatusBadRequest
	case errors.As(err, &upload), errors.Is(err, publish.ErrMissingMediaID):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
