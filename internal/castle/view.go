package castle

import (
	"errors"
	"time"

	"castle/internal/logging"
)

var ErrNilRenderer = errors.New("castle: renderer is nil")

type ViewOptions struct {
	Width, Height float64
	Driver        DriverOptions
	// Bus receives theme, frame and teardown events. A fresh bus is used when nil.
	Bus *EventBus
}

// View binds a scene to a renderer and a host's scroll/resize/frame callbacks.
type View struct {
	scene    *Scene
	reg      *ThemeRegistry
	renderer Renderer
	bus      *EventBus

	themes *ThemeController
	driver *AnimationDriver
	log    *logging.Logger

	scroll   float64
	tornDown bool
}

func NewView(sc *Scene, reg *ThemeRegistry, r Renderer, opts ViewOptions) (*View, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if reg == nil {
		reg = NewThemeRegistry()
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewEventBus()
	}
	h := opts.Height
	if h <= 0 {
		h = 1
	}
	tc, err := NewThemeController(sc.Themes, h, reg, sc.Overlay, bus)
	if err != nil {
		return nil, err
	}
	dopts := opts.Driver
	dopts.Bus = bus

	v := &View{
		scene:    sc,
		reg:      reg,
		renderer: r,
		bus:      bus,
		themes:   tc,
		driver:   NewAnimationDriver(sc, r, dopts),
		log:      logging.For("view"),
	}
	if opts.Width > 0 && opts.Height > 0 {
		sc.Camera.Aspect = opts.Width / opts.Height
	}
	sc.scrollCamera(0)
	return v, nil
}

// Tick runs one host frame.
func (v *View) Tick(elapsed time.Duration) error {
	if v.tornDown {
		return nil
	}
	return v.driver.Tick(elapsed)
}

// OnScroll moves the camera and switches worlds when pos crosses a section.
func (v *View) OnScroll(pos float64) {
	if v.tornDown {
		return
	}
	if pos < 0 {
		pos = 0
	}
	v.scroll = pos
	v.scene.scrollCamera(pos)
	v.themes.OnScroll(pos)
}

// Resize updates the camera aspect and the scroll section height, then
// re-evaluates the current scroll position against the new sections.
func (v *View) Resize(width, height float64) {
	if v.tornDown || width <= 0 || height <= 0 {
		return
	}
	v.scene.Camera.Aspect = width / height
	v.themes.Resize(height)
	v.themes.OnScroll(v.scroll)
}

// Teardown stops animation, releases renderer resources and drops every
// subscriber. It is safe to call more than once.
func (v *View) Teardown() {
	if v.tornDown {
		return
	}
	v.tornDown = true
	v.driver.Stop()
	v.scene.Overlay.Cancel()
	v.bus.Emit(Event{Type: EventTeardown})
	v.renderer.Release(v.scene.Root)
	v.bus.Reset()
	v.reg.Clear()
	v.log.Info("scene %s torn down after %d frames", v.scene.ID, v.driver.Frames())
}

func (v *View) Scene() *Scene { return v.scene }

func (v *View) Themes() *ThemeController { return v.themes }

func (v *View) Driver() *AnimationDriver { return v.driver }

func (v *View) Bus() *EventBus { return v.bus }

func (v *View) Scroll() float64 { return v.scroll }

func (v *View) TornDown() bool { return v.tornDown }
