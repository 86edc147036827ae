package castle

import (
	"fmt"
	"time"
)

// Renderer draws a scene and frees the resources held for a subtree.
type Renderer interface {
	Render(sc *Scene) error
	Release(root *Node)
}

type DriverOptions struct {
	PhysicsInterval time.Duration
	MaxCatchUp      int
	Bus             *EventBus
}

func (o DriverOptions) withDefaults() DriverOptions {
	if o.PhysicsInterval <= 0 {
		o.PhysicsInterval = PhysicsInterval
	}
	if o.MaxCatchUp <= 0 {
		o.MaxCatchUp = MaxPhysicsCatchUp
	}
	return o
}

// AnimationDriver owns the two periodic tasks that move the scene: the
// particle physics step and the per-frame motion plus render. Both run on
// the caller's goroutine inside Tick.
type AnimationDriver struct {
	scene    *Scene
	renderer Renderer
	bus      *EventBus

	physics *PeriodicTask
	frame   *PeriodicTask

	frameErr error
	rot      float64
	dt       time.Duration
	stopped  bool
}

func NewAnimationDriver(sc *Scene, r Renderer, opts DriverOptions) *AnimationDriver {
	opts = opts.withDefaults()
	d := &AnimationDriver{scene: sc, renderer: r, bus: opts.Bus}
	d.physics = NewPeriodicTask("physics", opts.PhysicsInterval, opts.MaxCatchUp, d.physicsStep)
	d.frame = NewPeriodicTask("frame", 0, 1, d.frameStep)
	return d
}

func (d *AnimationDriver) physicsStep() {
	d.scene.Field.Tick()
	d.bus.Emit(Event{Type: EventPhysicsTick})
}

func (d *AnimationDriver) frameStep() {
	sc := d.scene
	sc.Clock += d.dt
	sc.animate(sc.Clock.Seconds(), d.rot)
	sc.Overlay.Advance(d.dt)
	if d.renderer != nil {
		if err := d.renderer.Render(sc); err != nil {
			d.frameErr = fmt.Errorf("render frame: %w", err)
			return
		}
	}
	d.bus.Emit(Event{Type: EventFrame, Elapsed: d.dt})
}

// Tick advances the animation by elapsed. A non-positive elapsed advances one
// nominal frame and exactly one physics step. Rotation increments scale with
// elapsed so the spin rate does not depend on the display refresh rate.
func (d *AnimationDriver) Tick(elapsed time.Duration) error {
	if d.stopped {
		return nil
	}
	if elapsed <= 0 {
		d.dt = NominalFrame
		d.rot = 1
		d.physics.Step()
	} else {
		d.dt = elapsed
		d.rot = elapsed.Seconds() * NominalFPS
		d.physics.Advance(elapsed)
	}
	d.frameErr = nil
	d.frame.Advance(d.dt)
	return d.frameErr
}

// Stop halts both tasks. Later Ticks do nothing.
func (d *AnimationDriver) Stop() {
	d.stopped = true
	d.physics.Stop()
	d.frame.Stop()
}

func (d *AnimationDriver) Stopped() bool { return d.stopped }

// PhysicsSteps reports how many particle steps have run.
func (d *AnimationDriver) PhysicsSteps() uint64 { return d.physics.Runs() }

func (d *AnimationDriver) Frames() uint64 { return d.frame.Runs() }
