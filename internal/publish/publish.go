package publish

import (
	"context"
	"io"
	"strings"
)

const (
	PrivacyPublic   = "public"
	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
)

// Platform is the closed set of publishing targets.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
)

// ParsePlatform resolves a caller-supplied platform name case-insensitively.
func ParsePlatform(name string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(name))) {
	case PlatformYouTube:
		return PlatformYouTube, nil
	case PlatformBilibili:
		return PlatformBilibili, nil
	default:
		return "", &UnsupportedPlatformError{Name: name}
	}
}

type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// ThumbnailCandidate is one caller-supplied locator for a still image,
// evaluated in slice order. Source is either an object-store path or an
// absolute URL.
type ThumbnailCandidate struct {
	Name   string
	Source string
}

// Request carries everything one publish needs. Media is single-consumption:
// a pipeline reads it at most once.
type Request struct {
	Platform           Platform
	Media              io.Reader
	Size               int64
	Meta               Metadata
	AccessToken        string
	ScheduledPublishAt string
	Thumbnails         []ThumbnailCandidate
}

const (
	ThumbnailNotAttempted = "not_attempted"
	ThumbnailSucceeded    = "succeeded"
	ThumbnailFailed       = "failed"
)

type ThumbnailOutcome struct {
	State  string `json:"state"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason,omitempty"`
	Note   string `json:"note,omitempty"`
}

type Result struct {
	MediaID          string            `json:"mediaId"`
	URL              string            `json:"url"`
	Privacy          string            `json:"privacyStatus"`
	PublishAt        string            `json:"publishAt,omitempty"`
	StatusWarning    string            `json:"statusWarning,omitempty"`
	Thumbnail        ThumbnailOutcome  `json:"thumbnail"`
	PresetThumbnails map[string]string `json:"presetThumbnails"`
}

// Pipeline is one platform's upload sequence. Implementations keep all state
// request-scoped so a single pipeline value is safe for concurrent use.
type Pipeline interface {
	Upload(ctx context.Context, req Request) (*Result, error)
	Platform() Platform
}
