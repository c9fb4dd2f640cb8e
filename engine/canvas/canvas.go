// Package canvas is the embedding surface of the chassis view: it owns the scene, camera,
// framebuffer and frame sync, and exposes the calls the emulator makes per frame and per
// video update.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/binder"
	"github.com/Carmen-Shannon/oxy-beeb/engine/camera"
	"github.com/Carmen-Shannon/oxy-beeb/engine/compositor"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framesync"
	"github.com/Carmen-Shannon/oxy-beeb/engine/loader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoAssets is returned by Load when neither an asset root nor loaders were configured.
	ErrNoAssets = errors.New("canvas: no asset source configured")
	// ErrAlreadyLoaded is returned by a second Load.
	ErrAlreadyLoaded = errors.New("canvas: already loaded")
)

// Renderer draws the canvas scene onto its output surface.
type Renderer interface {
	Render(s scene.Scene, cam camera.Camera) error
	Resize(width, height int)
}

// Canvas drives the chassis model from an emulator. All methods are safe for concurrent use;
// Frame, Paint, HandleResize and the installation of loaded assets are serialized.
type Canvas interface {
	// Load runs the asset pipeline and binds the loaded model. Frames rendered before Load
	// returns show the background and whatever the pipeline has already assigned.
	//
	// Parameters:
	//   - ctx: cancels stages that have not started yet
	//
	// Returns:
	//   - error: a *loader.LoadError or *binder.BindingError, or ErrNoAssets / ErrAlreadyLoaded
	Load(ctx context.Context) error

	// LoadAsync runs Load on its own goroutine.
	//
	// Parameters:
	//   - ctx: passed to Load
	//
	// Returns:
	//   - <-chan error: receives Load's result once, then is closed
	LoadAsync(ctx context.Context) <-chan error

	// SetProcessor binds the emulator. It may be called once.
	//
	// Parameters:
	//   - p: the processor
	//
	// Returns:
	//   - error: framesync.ErrAlreadyBound on a second call
	SetProcessor(p framesync.Processor) error

	// Frame advances the controls, renders and mirrors the emulator state onto the model.
	//
	// Returns:
	//   - bool: always true
	Frame() bool

	// Paint copies the video buffer into the screen texture. The whole buffer is copied; the
	// region only documents what changed.
	//
	// Parameters:
	//   - minX, minY, maxX, maxY: the changed region in framebuffer pixels
	//
	// Returns:
	//   - error: framebuffer.ErrSizeMismatch if the video buffer has the wrong length
	Paint(minX, minY, maxX, maxY int) error

	// VideoBuffer returns the packed-pixel buffer the emulator draws into.
	//
	// Returns:
	//   - []uint32: the buffer, framebuffer.PixelCount entries unless replaced
	VideoBuffer() []uint32

	// SetVideoBuffer replaces the buffer Paint copies from.
	//
	// Parameters:
	//   - buf: an externally owned buffer
	SetVideoBuffer(buf []uint32)

	// HandleResize updates the camera aspect ratio and the output surface.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	//
	// Returns:
	//   - bool: false when either dimension is not positive and nothing changed
	HandleResize(width, height int) bool

	// Scene returns the displayed scene.
	Scene() scene.Scene

	// Camera returns the view camera.
	Camera() camera.Camera

	// Controls returns the orbit controls, or nil if the camera has none.
	Controls() camera.CameraController

	// FrameBuffer returns the buffer backing the screen's emissive texture.
	FrameBuffer() *framebuffer.FrameBuffer

	// Loaded reports whether Load has completed successfully.
	Loaded() bool

	// Paints returns the number of successful Paint calls.
	Paints() uint64
}

// canvas is the implementation of the Canvas interface.
type canvas struct {
	mu sync.Mutex

	renderer Renderer
	scene    scene.Scene
	camera   camera.Camera
	fb       *framebuffer.FrameBuffer
	video    []uint32
	sync     *framesync.Sync

	assetRoot fs.FS
	loaders   loader.Loaders
	paths     loader.AssetPaths
	hooks     []loader.StageHook

	loading bool
	loaded  bool
	paints  uint64
}

var _ Canvas = &canvas{}

// NewCanvas creates a canvas drawing through r. The default view matches the chassis
// framing: a 35 degree lens at (0, 20, 36.5) orbiting (0, 7, -2.36) over a #222222 backdrop
// with studio lighting.
//
// Parameters:
//   - r: the renderer of the output surface
//   - options: variadic list of CanvasBuilderOption functions
//
// Returns:
//   - Canvas: the canvas, not yet loaded
func NewCanvas(r Renderer, options ...CanvasBuilderOption) Canvas {
	c := &canvas{
		renderer: r,
		scene: scene.NewScene(
			scene.WithName("beeb"),
			scene.WithBackgroundColor(0x222222),
			scene.WithStudioLighting(),
		),
		fb:    framebuffer.New(),
		video: make([]uint32, framebuffer.PixelCount),
		sync:  framesync.New(),
		paths: loader.DefaultAssetPaths,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.camera == nil {
		c.camera = DefaultCamera()
	}
	return c
}

// DefaultCamera returns the chassis camera with orbit controls attached.
func DefaultCamera() camera.Camera {
	position := mgl32.Vec3{0, 20, 36.5}
	target := mgl32.Vec3{0, 7, -2.36}
	return camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(35)),
		camera.WithAspect(640.0/512.0),
		camera.WithClip(1, 1000),
		camera.WithPosition(position, target),
		camera.WithController(camera.NewOrbitControllerAt(position, target)),
	)
}

func (c *canvas) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.loaded {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.loading = true
	c.mu.Unlock()

	err := c.load(ctx)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	return err
}

func (c *canvas) load(ctx context.Context) error {
	loaders := c.loaders
	if loaders == nil {
		if c.assetRoot == nil {
			return ErrNoAssets
		}
		loaders = loader.NewFSLoaders(c.assetRoot)
	}

	opts := []loader.PipelineBuilderOption{
		loader.WithPaths(c.paths),
		loader.WithBackdrop(c.scene),
	}
	for _, h := range c.hooks {
		opts = append(opts, loader.WithStageHook(h))
	}
	bundle, err := loader.NewPipeline(loaders, opts...).Run(ctx)
	if err != nil {
		return err
	}

	bindings, err := binder.Bind(bundle.Model, binder.Inputs{
		Environment: bundle.Environment,
		FrameBuffer: c.fb.Texture(),
		Mask:        bundle.Mask,
		Snippets: compositor.Snippets{
			Prolog:   bundle.Prolog,
			Emissive: bundle.Emissive,
			Epilog:   bundle.Epilog,
		},
	})
	if err != nil {
		log.Errf("[Canvas] binding failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Add(bundle.Model)
	c.sync.SetBindings(bindings)
	c.loaded = true
	log.Infof("[Canvas] chassis ready: %d keys bound", len(bindings.BoundKeys()))
	return nil
}

func (c *canvas) LoadAsync(ctx context.Context) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- c.Load(ctx)
	}()
	return ch
}

func (c *canvas) SetProcessor(p framesync.Processor) error {
	if err := c.sync.SetProcessor(p); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	return nil
}

func (c *canvas) Frame() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sync.Tick(controls{c.camera}, func() error {
		if c.renderer == nil {
			return nil
		}
		return c.renderer.Render(c.scene, c.camera)
	})
}

func (c *canvas) Paint(minX, minY, maxX, maxY int) error {
	if minX < 0 || minY < 0 || maxX > framebuffer.Width || maxY > framebuffer.Height || minX > maxX || minY > maxY {
		log.Debugf("[Canvas] paint region (%d,%d)-(%d,%d) outside the framebuffer", minX, minY, maxX, maxY)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fb.Paint(c.video); err != nil {
		return err
	}
	c.paints++
	return nil
}

func (c *canvas) VideoBuffer() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.video
}

func (c *canvas) SetVideoBuffer(buf []uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.video = buf
}

func (c *canvas) HandleResize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera.SetAspect(float32(width) / float32(height))
	if c.renderer != nil {
		c.renderer.Resize(width, height)
	}
	return true
}

func (c *canvas) Scene() scene.Scene {
	return c.scene
}

func (c *canvas) Camera() camera.Camera {
	return c.camera
}

func (c *canvas) Controls() camera.CameraController {
	return c.camera.Controller()
}

func (c *canvas) FrameBuffer() *framebuffer.FrameBuffer {
	return c.fb
}

func (c *canvas) Paints() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paints
}

func (c *canvas) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// controls advances the orbit controller and then the camera matrices.
type controls struct {
	cam camera.Camera
}

func (c controls) Update() {
	if ctrl := c.cam.Controller(); ctrl != nil {
		ctrl.Update()
	}
	c.cam.Update()
}
