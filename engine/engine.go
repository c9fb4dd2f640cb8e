package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/canvas"
	"github.com/Carmen-Shannon/oxy-beeb/engine/profiler"
	"github.com/Carmen-Shannon/oxy-beeb/engine/window"
)

// engine implements the Engine interface.
// Coordinates the emulator tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	canvas canvas.Canvas

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	frames atomic.Uint64
}

// Engine is the main entry point for the engine.
// It orchestrates the emulator tick loop, the render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Canvas returns the canvas drawn every render frame.
	//
	// Returns:
	//   - canvas.Canvas: the canvas instance
	Canvas() canvas.Canvas

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate to step the emulator.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this to step the emulated machine and to paint its video output.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of canvas frames rendered so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run starts the engine goroutines and the window message loop. Blocks until the window
	// closes or Quit is called, then waits for the goroutines to exit.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Window resize, scroll and drag events are routed to the canvas and its orbit controls.
//
// Parameters:
//   - options: functional options for engine configuration (window, canvas, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	var counters []profiler.ProfilerBuilderOption
	if e.canvas != nil {
		counters = append(counters, profiler.WithCounter("Paints", e.canvas.Paints))
	}
	e.profiler = profiler.NewProfiler(counters...)

	if e.window != nil && e.canvas != nil {
		e.bindInput()
	}

	return e
}

// bindInput routes window events to the canvas: resizes update the camera and surface,
// the wheel zooms, left drags orbit and right drags pan.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(func(width, height int) {
		e.canvas.HandleResize(width, height)
	})
	e.window.SetScrollCallback(func(delta float32) {
		if ctrl := e.canvas.Controls(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})
	e.window.SetDragCallback(func(button window.MouseButton, dx, dy float32) {
		ctrl := e.canvas.Controls()
		if ctrl == nil {
			return
		}
		switch button {
		case window.MouseButtonLeft:
			ctrl.Rotate(dx, dy)
		case window.MouseButtonRight:
			ctrl.Pan(dx, dy)
		}
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Canvas() canvas.Canvas {
	return e.canvas
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			// The surface must outlive the last frame.
			e.wg.Wait()
			_ = e.window.Close()
		default:
		}
	})
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each iteration advances the canvas one frame: controls, render, key and LED sync.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Errf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.canvas != nil && e.canvas.Frame() {
				e.frames.Add(1)
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// Non-blocking send; a pending update is replaced by the newer rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
