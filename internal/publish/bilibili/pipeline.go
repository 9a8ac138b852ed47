// Package bilibili is a placeholder pipeline. The Bilibili submission
// protocol (chunked upload sessions, cover upload, archive submit) is not
// implemented; dispatching here always fails with a permanent error.
package bilibili

import (
	"context"

	"clipcast/internal/publish"
)

type Pipeline struct{}

var _ publish.Pipeline = (*Pipeline)(nil)

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Platform() publish.Platform {
	return publish.PlatformBilibili
}

func (p *Pipeline) Upload(ctx context.Context, req publish.Request) (*publish.Result, error) {
	return nil, publish.ErrNotImplemented
}
