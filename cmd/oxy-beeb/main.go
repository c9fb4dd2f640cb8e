// oxy-beeb shows a BBC Micro chassis whose keys and LEDs follow the host keyboard and whose
// screen shows the machine's video output.
//
// Controls:
//
//	Keyboard      - BBC keyboard by position (F12 is BREAK, END is COPY, HOME is SHIFT LOCK)
//	Left drag     - Orbit the camera
//	Right drag    - Pan the camera
//	Scroll        - Zoom
package main

import (
	"context"
	"flag"
	"os"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/emulator"
	"github.com/Carmen-Shannon/oxy-beeb/engine"
	"github.com/Carmen-Shannon/oxy-beeb/engine/canvas"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer"
	"github.com/Carmen-Shannon/oxy-beeb/engine/window"
)

func main() {
	root := flag.String("root", ".", "Deployment root holding the chassis assets")
	width := flag.Int("width", 1280, "Initial window width")
	height := flag.Int("height", 1024, "Initial window height")
	fps := flag.Float64("fps", 50, "Emulator ticks per second")
	frameLimit := flag.Float64("frame-limit", 0, "Render frame cap, 0 for uncapped")
	profile := flag.Bool("profile", false, "Log frame rate and memory statistics every second")
	vsync := flag.Bool("vsync", true, "Wait for vertical blank when presenting")
	software := flag.Bool("software", false, "Force the software GPU adapter")
	cli.MinArgs = 0
	cli.MaxArgs = 0
	cli.Main()

	os.Exit(run(*root, *width, *height, *fps, *frameLimit, *profile, *vsync, *software))
}

func run(root string, width, height int, fps, frameLimit float64, profile, vsync, software bool) int {
	win := window.NewWindow(
		window.WithTitle("oxy-beeb"),
		window.WithWidth(width),
		window.WithHeight(height),
	)
	defer func() {
		if err := win.Close(); err != nil {
			log.Warnf("closing window: %v", err)
		}
	}()

	mode := renderer.PresentModeUncapped
	if vsync {
		mode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(mode),
		renderer.WithForceSoftwareRenderer(software),
	)

	c := canvas.NewCanvas(r, canvas.WithAssetRoot(os.DirFS(root)))
	c.HandleResize(win.Width(), win.Height())

	kb := emulator.NewKeyboard()
	if err := c.SetProcessor(kb); err != nil {
		log.Errf("binding keyboard: %v", err)
		return 1
	}
	win.SetKeyDownCallback(kb.KeyDown)
	win.SetKeyUpCallback(kb.KeyUp)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithCanvas(c),
		engine.WithTickRate(fps),
		engine.WithRenderFrameLimit(frameLimit),
		engine.WithProfiling(profile),
	)

	boot := emulator.NewBootScreen()
	eng.SetTickCallback(func(float32) {
		dirty, err := boot.Draw(c.VideoBuffer())
		if err != nil {
			log.Errf("drawing boot screen: %v", err)
			return
		}
		if dirty.Empty() {
			return
		}
		if err := c.Paint(dirty.Min.X, dirty.Min.Y, dirty.Max.X, dirty.Max.Y); err != nil {
			log.Errf("paint: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := <-c.LoadAsync(ctx); err != nil {
			log.Errf("chassis unavailable, showing the backdrop only: %v", err)
		}
	}()

	log.Infof("oxy-beeb running, assets from %s", root)
	eng.Run()
	return 0
}
