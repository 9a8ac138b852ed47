package publish

import "context"

// Router dispatches a publish request to the pipeline registered for its
// platform. Adding a platform means registering another Pipeline variant.
type Router struct {
	pipelines map[Platform]Pipeline
}

func NewRouter(pipelines ...Pipeline) *Router {
	r := &Router{pipelines: make(map[Platform]Pipeline, len(pipelines))}
	for _, p := range pipelines {
		r.pipelines[p.Platform()] = p
	}
	return r
}

func (r *Router) Register(p Pipeline) {
	r.pipelines[p.Platform()] = p
}

// Dispatch validates the platform name and runs the matching pipeline.
// An unknown name fails before any network call.
func (r *Router) Dispatch(ctx context.Context, name string, req Request) (*Result, error) {
	platform, err := ParsePlatform(name)
	if err != nil {
		return nil, err
	}

	pipeline, ok := r.pipelines[platform]
	if !ok {
		return nil, &UnsupportedPlatformError{Name: name}
	}

	req.Platform = platform
	return pipeline.Upload(ctx, req)
}
