package loader

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// ErrAssetLoad is matched by every error returned from Pipeline.Run.
var ErrAssetLoad = errors.New("asset load failed")

// LoadError reports the pipeline stage that failed.
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset load failed at stage %q: %v", e.Stage, e.Err)
}

// Unwrap exposes both ErrAssetLoad and the stage's own error to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	return []error{ErrAssetLoad, e.Err}
}

// AssetPaths are the asset locations, relative to the loaders' root.
type AssetPaths struct {
	Background string
	Mask       string
	Materials  string
	Model      string
	Prolog     string
	Emissive   string
	Epilog     string
}

// DefaultAssetPaths is the deployment layout of the chassis assets.
var DefaultAssetPaths = AssetPaths{
	Background: "virtual-beeb/textures/equirectangular-bg.jpg",
	Mask:       "virtual-beeb/textures/mask.png",
	Materials:  "virtual-beeb/models/beeb.mtl",
	Model:      "virtual-beeb/models/beeb.obj",
	Prolog:     "screen_prolog.glsl",
	Emissive:   "screen_emissive.glsl",
	Epilog:     "screen_epilog.glsl",
}

// AssetBundle collects the pipeline's results.
type AssetBundle struct {
	Background  *texture.Texture
	Environment *texture.CubeTexture
	Mask        *texture.Texture
	Materials   *MaterialLibrary
	Prolog      string
	Emissive    string
	Epilog      string
	Model       game_object.GameObject

	// texts records which snippets were read; an empty file is a loaded snippet.
	texts map[string]bool
}

// Complete reports whether every asset has been loaded.
func (b *AssetBundle) Complete() bool {
	return b.Background != nil && b.Environment != nil && b.Mask != nil && b.Materials != nil &&
		b.texts[stageProlog] && b.texts[stageEmissive] && b.texts[stageEpilog] && b.Model != nil
}

func (b *AssetBundle) setText(stage, src string) {
	switch stage {
	case stageProlog:
		b.Prolog = src
	case stageEmissive:
		b.Emissive = src
	case stageEpilog:
		b.Epilog = src
	}
	if b.texts == nil {
		b.texts = make(map[string]bool)
	}
	b.texts[stage] = true
}

const (
	stageProlog   = "prolog"
	stageEmissive = "emissive"
	stageEpilog   = "epilog"
)

// Backdrop receives the environment as soon as it is available, before the remaining stages run.
type Backdrop interface {
	SetBackgroundCube(cube *texture.CubeTexture)
}

// Stage is one step of the pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context, b *AssetBundle) error
}

// StageHook observes stage completion. err is nil on success.
type StageHook func(stage string, index, total int, err error)

// Pipeline loads the chassis assets one stage at a time on the calling goroutine.
type Pipeline struct {
	loaders  Loaders
	paths    AssetPaths
	backdrop Backdrop
	hooks    []StageHook
	stages   []Stage
}

// NewPipeline creates the asset pipeline.
//
// Parameters:
//   - loaders: the asset readers
//   - options: variadic list of PipelineBuilderOption functions
//
// Returns:
//   - *Pipeline: the pipeline
func NewPipeline(loaders Loaders, options ...PipelineBuilderOption) *Pipeline {
	p := &Pipeline{
		loaders: loaders,
		paths:   DefaultAssetPaths,
	}
	for _, opt := range options {
		opt(p)
	}
	p.stages = p.defaultStages()
	return p
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage in order. The context is checked before each stage; a stage that
// has started always runs to completion.
//
// Parameters:
//   - ctx: cancels the remaining stages
//
// Returns:
//   - *AssetBundle: the loaded assets
//   - error: a *LoadError naming the failed stage
func (p *Pipeline) Run(ctx context.Context) (*AssetBundle, error) {
	b := &AssetBundle{}
	total := len(p.stages)
	for i, s := range p.stages {
		err := ctx.Err()
		if err == nil {
			log.Infof("[Loader] (%d/%d) %s", i+1, total, s.Name)
			err = s.Run(context.WithoutCancel(ctx), b)
		}
		for _, h := range p.hooks {
			h(s.Name, i, total, err)
		}
		if err != nil {
			log.Errf("[Loader] stage %s failed: %v", s.Name, err)
			return nil, &LoadError{Stage: s.Name, Err: err}
		}
	}
	log.Infof("[Loader] all %d stages loaded", total)
	return b, nil
}

func (p *Pipeline) defaultStages() []Stage {
	return []Stage{
		{Name: "background", Run: p.loadBackground},
		{Name: "mask", Run: p.loadMask},
		{Name: "materials", Run: p.loadMaterials},
		{Name: stageProlog, Run: p.loadText(stageProlog, p.paths.Prolog)},
		{Name: stageEmissive, Run: p.loadText(stageEmissive, p.paths.Emissive)},
		{Name: stageEpilog, Run: p.loadText(stageEpilog, p.paths.Epilog)},
		{Name: "model", Run: p.loadModel},
	}
}

func (p *Pipeline) loadBackground(ctx context.Context, b *AssetBundle) error {
	tex, err := p.loaders.LoadTexture(ctx, p.paths.Background)
	if err != nil {
		return err
	}
	tex.SetColorSpace(texture.ColorSpaceSRGB)
	cube, err := texture.EquirectToCube(tex, 0)
	if err != nil {
		return err
	}
	b.Background = tex
	b.Environment = cube
	if p.backdrop != nil {
		p.backdrop.SetBackgroundCube(cube)
	}
	return nil
}

func (p *Pipeline) loadMask(ctx context.Context, b *AssetBundle) error {
	tex, err := p.loaders.LoadTexture(ctx, p.paths.Mask)
	if err != nil {
		return err
	}
	tex.SetSampler(texture.Sampler{
		MagFilter:  texture.FilterLinear,
		MinFilter:  texture.FilterLinearMipmapLinear,
		WrapS:      texture.WrapRepeat,
		WrapT:      texture.WrapRepeat,
		Anisotropy: 1,
	})
	tex.SetColorSpace(texture.ColorSpaceSRGB)
	tex.GenerateMipmaps()
	b.Mask = tex
	return nil
}

func (p *Pipeline) loadMaterials(ctx context.Context, b *AssetBundle) error {
	lib, err := p.loaders.LoadMaterials(ctx, p.paths.Materials)
	if err != nil {
		return err
	}
	if err := lib.Preload(ctx); err != nil {
		return err
	}
	b.Materials = lib
	return nil
}

func (p *Pipeline) loadText(stage, path string) func(context.Context, *AssetBundle) error {
	return func(ctx context.Context, b *AssetBundle) error {
		s, err := p.loaders.LoadText(ctx, path)
		if err != nil {
			return err
		}
		b.setText(stage, s)
		return nil
	}
}

func (p *Pipeline) loadModel(ctx context.Context, b *AssetBundle) error {
	root, err := p.loaders.LoadModel(ctx, p.paths.Model, b.Materials)
	if err != nil {
		return err
	}
	b.Model = root
	return nil
}
