package loader

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLoaders delays early assets longer than late ones so that any concurrency in the
// pipeline would reorder the recorded calls.
type recordingLoaders struct {
	Loaders

	mu    sync.Mutex
	calls []string
	delay map[string]time.Duration
}

func (r *recordingLoaders) record(p string) {
	if d := r.delay[p]; d > 0 {
		time.Sleep(d)
	}
	r.mu.Lock()
	r.calls = append(r.calls, p)
	r.mu.Unlock()
}

func (r *recordingLoaders) LoadTexture(ctx context.Context, p string) (*texture.Texture, error) {
	r.record(p)
	return r.Loaders.LoadTexture(ctx, p)
}

func (r *recordingLoaders) LoadMaterials(ctx context.Context, p string) (*MaterialLibrary, error) {
	r.record(p)
	return r.Loaders.LoadMaterials(ctx, p)
}

func (r *recordingLoaders) LoadText(ctx context.Context, p string) (string, error) {
	r.record(p)
	return r.Loaders.LoadText(ctx, p)
}

func (r *recordingLoaders) LoadModel(ctx context.Context, p string, lib *MaterialLibrary) (game_object.GameObject, error) {
	r.record(p)
	return r.Loaders.LoadModel(ctx, p, lib)
}

type backdropRecorder struct {
	cube *texture.CubeTexture
	at   int
	seen *[]string
}

func (b *backdropRecorder) SetBackgroundCube(cube *texture.CubeTexture) {
	b.cube = cube
	b.at = len(*b.seen)
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	rec := &recordingLoaders{
		Loaders: NewFSLoaders(testFS(t)),
		delay: map[string]time.Duration{
			DefaultAssetPaths.Background: 30 * time.Millisecond,
			DefaultAssetPaths.Mask:       20 * time.Millisecond,
			DefaultAssetPaths.Prolog:     10 * time.Millisecond,
		},
	}
	var stages []string
	bd := &backdropRecorder{seen: &stages}

	p := NewPipeline(rec,
		WithBackdrop(bd),
		WithStageHook(func(stage string, index, total int, err error) {
			assert.NoError(t, err)
			assert.Equal(t, 7, total)
			assert.Equal(t, len(stages), index)
			stages = append(stages, stage)
		}),
	)
	b, err := p.Run(context.Background())
	require.NoError(t, err)
	require.True(t, b.Complete())

	assert.Equal(t, []string{"background", "mask", "materials", "prolog", "emissive", "epilog", "model"}, stages)
	assert.Equal(t, p.Stages(), stages)
	assert.Equal(t, []string{
		DefaultAssetPaths.Background,
		DefaultAssetPaths.Mask,
		DefaultAssetPaths.Materials,
		DefaultAssetPaths.Prolog,
		DefaultAssetPaths.Emissive,
		DefaultAssetPaths.Epilog,
		DefaultAssetPaths.Model,
	}, rec.calls)

	// The backdrop is assigned while the background stage runs, before any later stage.
	require.NotNil(t, bd.cube)
	assert.Same(t, b.Environment, bd.cube)
	assert.Equal(t, 0, bd.at)
	assert.Equal(t, 4, b.Environment.Size(), "cube size defaults to the panorama height")

	s := b.Mask.Sampler()
	assert.Equal(t, texture.FilterLinear, s.MagFilter)
	assert.Equal(t, texture.FilterLinearMipmapLinear, s.MinFilter)
	assert.Equal(t, texture.WrapRepeat, s.WrapS)
	assert.Equal(t, texture.WrapRepeat, s.WrapT)
	assert.Equal(t, texture.ColorSpaceSRGB, b.Mask.ColorSpace())
	assert.NotEmpty(t, b.Mask.Mipmaps())

	assert.Equal(t, "uniform sampler2D maskTexture;", b.Prolog)
	_, ok := b.Model.ObjectByName("CASE_Cube.001")
	assert.True(t, ok)
}

func TestPipelineFailureNamesStage(t *testing.T) {
	fsys := testFS(t)
	delete(fsys, "virtual-beeb/textures/mask.png")

	var failed string
	p := NewPipeline(NewFSLoaders(fsys), WithStageHook(func(stage string, _, _ int, err error) {
		if err != nil {
			failed = stage
		}
	}))
	b, err := p.Run(context.Background())
	assert.Nil(t, b)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrAssetLoad)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "mask", le.Stage)
	assert.Equal(t, "mask", failed)
}

func TestPipelineCancellationStopsBeforeNextStage(t *testing.T) {
	rec := &recordingLoaders{Loaders: NewFSLoaders(testFS(t))}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPipeline(rec, WithStageHook(func(stage string, _, _ int, err error) {
		if stage == "materials" && err == nil {
			cancel()
		}
	}))
	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrAssetLoad)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "prolog", le.Stage)
	assert.NotContains(t, rec.calls, DefaultAssetPaths.Prolog)
	assert.Contains(t, rec.calls, DefaultAssetPaths.Materials)
}

func TestPipelineWithPaths(t *testing.T) {
	fsys := testFS(t)
	fsys["alt/prolog.glsl"] = fsys["screen_prolog.glsl"]
	paths := DefaultAssetPaths
	paths.Prolog = "alt/prolog.glsl"

	b, err := NewPipeline(NewFSLoaders(fsys), WithPaths(paths)).Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, b.Prolog)
}

func TestPipelineAcceptsEmptySnippet(t *testing.T) {
	fsys := testFS(t)
	fsys[DefaultAssetPaths.Epilog].Data = nil

	b, err := NewPipeline(NewFSLoaders(fsys)).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b.Epilog)
	assert.True(t, b.Complete(), "an empty file still counts as loaded")

	partial := &AssetBundle{Background: b.Background, Environment: b.Environment, Mask: b.Mask,
		Materials: b.Materials, Model: b.Model, Prolog: b.Prolog, Emissive: b.Emissive}
	assert.False(t, partial.Complete(), "snippets that were never read are missing")
}
