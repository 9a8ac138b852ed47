package youtube

import (
	"strings"
	"time"

	"clipcast/internal/publish"
)

type videoSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"categoryId"`
}

type videoStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
	PublishAt     string `json:"publishAt,omitempty"`
}

type videoResource struct {
	Snippet videoSnippet `json:"snippet"`
	Status  videoStatus  `json:"status"`
}

// buildResource shapes caller metadata into the video resource the insert
// endpoint expects. A scheduled publish time forces privacy to private until
// the platform flips it at publish time.
func buildResource(meta publish.Metadata, scheduledAt string) (videoResource, error) {
	status := videoStatus{PrivacyStatus: meta.Privacy}
	if status.PrivacyStatus == "" {
		status.PrivacyStatus = publish.PrivacyPrivate
	}

	if scheduledAt != "" {
		publishAt, err := normalizeScheduleTime(scheduledAt)
		if err != nil {
			return videoResource{}, err
		}
		status.PrivacyStatus = publish.PrivacyPrivate
		status.PublishAt = publishAt
	}

	return videoResource{
		Snippet: videoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryID:  meta.CategoryID,
		},
		Status: status,
	}, nil
}

// normalizeScheduleTime defaults timestamps without an explicit offset to UTC
// and rejects anything that does not parse as RFC 3339 afterwards. Calling it
// on an already-normalized value yields the same string.
func normalizeScheduleTime(value string) (string, error) {
	normalized := value
	if !hasExplicitOffset(value) {
		normalized = value + "Z"
	}

	if _, err := time.Parse(time.RFC3339, normalized); err != nil {
		return "", &publish.InvalidScheduleTimeError{Value: value}
	}

	return normalized, nil
}

func hasExplicitOffset(value string) bool {
	if strings.HasSuffix(value, "Z") {
		return true
	}
	if len(value) < 6 {
		return false
	}
	tail := value[len(value)-6:]
	return (tail[0] == '+' || tail[0] == '-') && tail[3] == ':'
}
