package loader

// PipelineBuilderOption is a functional option for configuring a Pipeline via NewPipeline.
type PipelineBuilderOption func(*Pipeline)

// WithPaths is an option builder that overrides the asset locations.
//
// Parameters:
//   - paths: the asset paths
//
// Returns:
//   - PipelineBuilderOption: a function that applies the paths option to a pipeline
func WithPaths(paths AssetPaths) PipelineBuilderOption {
	return func(p *Pipeline) {
		p.paths = paths
	}
}

// WithBackdrop is an option builder that sets the target receiving the environment cube as
// soon as the background stage finishes.
//
// Parameters:
//   - b: the backdrop, usually the scene
//
// Returns:
//   - PipelineBuilderOption: a function that applies the backdrop option to a pipeline
func WithBackdrop(b Backdrop) PipelineBuilderOption {
	return func(p *Pipeline) {
		p.backdrop = b
	}
}

// WithStageHook is an option builder that registers a progress observer.
//
// Parameters:
//   - hook: called after every stage, including the failing one
//
// Returns:
//   - PipelineBuilderOption: a function that applies the hook option to a pipeline
func WithStageHook(hook StageHook) PipelineBuilderOption {
	return func(p *Pipeline) {
		p.hooks = append(p.hooks, hook)
	}
}
