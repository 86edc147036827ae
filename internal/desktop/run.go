package desktop

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"castle/internal/castle"
	"castle/internal/config"
	"castle/internal/logging"
	"castle/internal/metrics"
)

// Run opens the window and animates a castle until the window closes.
// exp may be nil.
func Run(cfg *config.Config, exp *metrics.Exporter) error {
	runtime.LockOSThread()
	log := logging.For("desktop")

	themes, err := castle.SelectThemes(cfg.Scene.Themes)
	if err != nil {
		return fmt.Errorf("scene themes: %w", err)
	}

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Debug("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	fbW, fbH := window.GetFramebufferSize()
	rend.SetViewport(fbW, fbH)
	winW, winH := window.GetSize()

	sc, reg := castle.BuildScene(castle.SceneParams{
		Seed:        cfg.SeedOrClock(),
		Themes:      themes,
		Layers:      cfg.Scene.Layers,
		Bridges:     cfg.Scene.Bridges,
		PointLights: cfg.Scene.PointLights,
		Lanterns:    cfg.Scene.Lanterns,
		Houses:      cfg.Scene.Houses,
		Particles:   castle.FieldConfig{Count: cfg.Scene.Particles},
		Aspect:      float64(winW) / float64(max(winH, 1)),
	})

	bus := castle.NewEventBus()
	if exp != nil {
		exp.Attach(bus)
		exp.ObserveScene(sc)
	}
	if *cfg.Audio.Enabled {
		chime, err := NewChime(cfg.Audio.Volume)
		if err != nil {
			log.Warn("audio init failed (continuing without sound): %v", err)
		} else {
			chime.Attach(bus)
		}
	}

	view, err := castle.NewView(sc, reg, rend, castle.ViewOptions{
		Width:  float64(winW),
		Height: float64(winH),
		Driver: castle.DriverOptions{PhysicsInterval: cfg.Scene.PhysicsInterval()},
		Bus:    bus,
	})
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	defer view.Teardown()

	bindInput(window, view, rend, cfg.Window.ScrollStep)
	log.Info("castle %s: seed %d, %d worlds", sc.ID, sc.Seed, len(themes))

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if err := view.Tick(time.Duration(dt * float64(time.Second))); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
		window.SwapBuffers()
	}
	log.Info("window closed after %d frames", view.Driver().Frames())
	return nil
}

// bindInput maps the wheel and paging keys onto the scroll position, and
// window resizes onto the viewport and the scroll sections.
func bindInput(window *glfw.Window, view *castle.View, rend *Renderer, step float64) {
	_, winH := window.GetSize()
	page := func() float64 { return float64(max(winH, 1)) }
	scrollTo := func(pos float64) {
		if pos < 0 {
			pos = 0
		}
		view.OnScroll(pos)
	}

	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		scrollTo(view.Scroll() - yoff*step)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyPageDown, glfw.KeySpace:
			scrollTo(view.Scroll() + page())
		case glfw.KeyPageUp:
			scrollTo(view.Scroll() - page())
		case glfw.KeyDown:
			scrollTo(view.Scroll() + step)
		case glfw.KeyUp:
			scrollTo(view.Scroll() - step)
		case glfw.KeyHome:
			scrollTo(0)
		case glfw.KeyEnd:
			scrollTo(float64(len(view.Themes().Themes())-1) * page())
		}
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		rend.SetViewport(w, h)
	})
	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		if w <= 0 || h <= 0 {
			return
		}
		winH = h
		view.Resize(float64(w), float64(h))
	})
}
