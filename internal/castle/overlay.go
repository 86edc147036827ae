package castle

import "time"

// Overlay is the full-screen transition flash plus the scroll-driven depth tint.
// It is driven by the frame clock, not by timers, so it never fires after teardown.
type Overlay struct {
	Top, Bottom RGBA
	Tint        RGBA

	visible  bool
	pending  bool
	hideAt   time.Duration
	now      time.Duration
	duration time.Duration
}

func NewOverlay(t Theme) *Overlay {
	return &Overlay{
		Top:      t.OverlayTop,
		Bottom:   t.OverlayBottom,
		Tint:     t.DepthTint,
		duration: OverlayDuration,
	}
}

// Flash shows the overlay in t's colours and schedules the hide. If a hide is
// already pending it is kept, so back-to-back transitions hide on the first deadline.
func (o *Overlay) Flash(t Theme) {
	o.Top, o.Bottom = t.OverlayTop, t.OverlayBottom
	o.Tint.RGB = t.DepthTint.RGB
	o.visible = true
	if !o.pending {
		o.pending = true
		o.hideAt = o.now + o.duration
	}
}

// Advance moves the overlay clock forward and expires the flash.
func (o *Overlay) Advance(dt time.Duration) {
	o.now += dt
	if o.pending && o.now >= o.hideAt {
		o.pending = false
		o.visible = false
	}
}

// Opacity is 1 while the flash is shown and 0 otherwise.
func (o *Overlay) Opacity() float64 {
	if o.visible {
		return 1
	}
	return 0
}

func (o *Overlay) Visible() bool { return o.visible }

// SetDepth sets the depth-tint opacity from the scroll position.
func (o *Overlay) SetDepth(pos float64) {
	o.Tint.A = clampF(0.2+0.00005*pos, 0, 1)
}

// Cancel drops any pending hide and hides immediately.
func (o *Overlay) Cancel() {
	o.pending = false
	o.visible = false
}
