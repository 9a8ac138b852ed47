package youtube

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"clipcast/internal/publish"
	"clipcast/internal/storage"
)

// Pipeline runs the full YouTube publish sequence: normalize metadata, build
// the multipart body, insert the media, verify its privacy state, then make a
// best-effort thumbnail attach.
type Pipeline struct {
	client     *Client
	store      storage.Store
	httpClient *http.Client
	logger     *slog.Logger
}

var _ publish.Pipeline = (*Pipeline)(nil)

func NewPipeline(client *Client, store storage.Store, logger *slog.Logger) *Pipeline {
	if client == nil {
		client = NewClient(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client:     client,
		store:      store,
		httpClient: client.httpClient,
		logger:     logger,
	}
}

func (p *Pipeline) Platform() publish.Platform {
	return publish.PlatformYouTube
}

func (p *Pipeline) Upload(ctx context.Context, req publish.Request) (*publish.Result, error) {
	// All validation happens before any network call.
	resource, err := buildResource(req.Meta, req.ScheduledPublishAt)
	if err != nil {
		return nil, err
	}

	// The insert endpoint needs the full media payload up front; the request
	// stream is consumed exactly once, here.
	media, err := io.ReadAll(req.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}

	builder := newRelatedBuilder()
	phase, err := builder.Metadata(resource)
	if err != nil {
		return nil, err
	}
	body, size := phase.Media(media, defaultMediaType)

	inserted, err := p.client.Insert(ctx, body, builder.ContentType(), size, req.AccessToken)
	if err != nil {
		return nil, err
	}

	p.logger.Info("video uploaded",
		"media_id", inserted.ID,
		"privacy", resource.Status.PrivacyStatus,
		"publish_at", resource.Status.PublishAt,
	)

	result := &publish.Result{
		MediaID:          inserted.ID,
		URL:              fmt.Sprintf(watchURLFormat, inserted.ID),
		Privacy:          resource.Status.PrivacyStatus,
		PublishAt:        resource.Status.PublishAt,
		StatusWarning:    p.verifyStatus(ctx, inserted.ID, resource.Status.PrivacyStatus, req.AccessToken),
		PresetThumbnails: presetThumbnails(inserted.ID),
	}
	result.Thumbnail = p.attachThumbnail(ctx, inserted.ID, req)

	return result, nil
}

// verifyStatus re-queries the created item and compares its privacy state
// against what was requested. The platform applies the write asynchronously,
// so a mismatch (or a failed query) is recorded as a warning, never an error.
func (p *Pipeline) verifyStatus(ctx context.Context, mediaID, expected, token string) string {
	got, err := p.client.Status(ctx, mediaID, token)
	if err != nil {
		p.logger.Warn("status verification failed", "media_id", mediaID, "error", err)
		return fmt.Sprintf("status verification failed: %v", err)
	}
	if got != expected {
		p.logger.Warn("privacy status mismatch", "media_id", mediaID, "want", expected, "got", got)
		return fmt.Sprintf("privacy status is %q, expected %q", got, expected)
	}
	return ""
}

// attachThumbnail resolves the highest-priority usable candidate and attaches
// it to the uploaded video. Every failure in here is converted into a
// structured outcome; the upload itself already succeeded.
func (p *Pipeline) attachThumbnail(ctx context.Context, mediaID string, req publish.Request) publish.ThumbnailOutcome {
	candidate, ok := selectCandidate(req.Thumbnails)
	if !ok {
		return publish.ThumbnailOutcome{
			State: publish.ThumbnailNotAttempted,
			Note:  "no thumbnail supplied, platform auto-generated thumbnail will be used",
		}
	}

	image, err := p.resolveThumbnail(ctx, candidate.Source)
	if err != nil {
		p.logger.Warn("thumbnail resolve failed", "media_id", mediaID, "source", candidate.Source, "error", err)
		return publish.ThumbnailOutcome{State: publish.ThumbnailFailed, Reason: err.Error()}
	}

	if err := p.client.SetThumbnail(ctx, mediaID, bytes.NewReader(image.data), image.contentType, int64(len(image.data)), req.AccessToken); err != nil {
		p.logger.Warn("thumbnail attach failed", "media_id", mediaID, "source", candidate.Source, "error", err)
		return publish.ThumbnailOutcome{State: publish.ThumbnailFailed, Reason: err.Error()}
	}

	p.logger.Info("thumbnail attached", "media_id", mediaID, "source", candidate.Source)
	return publish.ThumbnailOutcome{State: publish.ThumbnailSucceeded, Source: candidate.Source}
}
