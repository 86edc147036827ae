package castle

import (
	"errors"
	"math"

	"castle/internal/logging"
)

var ErrNoThemes = errors.New("castle: theme sequence is empty")

// WorldState is the scroll-derived theme selection.
type WorldState struct {
	CurrentThemeIndex int
	LastScrollSection int
}

// ThemeController maps scroll position to a theme and applies transitions.
// It is the only writer of WorldState.
type ThemeController struct {
	themes   []Theme
	viewport float64
	state    WorldState

	reg     *ThemeRegistry
	overlay *Overlay
	bus     *EventBus
	log     *logging.Logger
}

// NewThemeController starts on theme 0. reg, overlay and bus may be nil.
func NewThemeController(themes []Theme, viewportHeight float64, reg *ThemeRegistry, overlay *Overlay, bus *EventBus) (*ThemeController, error) {
	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	tc := &ThemeController{
		themes:  append([]Theme(nil), themes...),
		reg:     reg,
		overlay: overlay,
		bus:     bus,
		log:     logging.For("theme"),
	}
	tc.Resize(viewportHeight)
	return tc, nil
}

// Resize changes the section height. Non-positive heights count as 1.
func (tc *ThemeController) Resize(viewportHeight float64) {
	if viewportHeight <= 0 || math.IsNaN(viewportHeight) {
		viewportHeight = 1
	}
	tc.viewport = viewportHeight
}

// OnScroll selects the theme for pos and reports whether a transition ran.
// Sections past the last theme stay on the last theme.
func (tc *ThemeController) OnScroll(pos float64) bool {
	if math.IsNaN(pos) {
		return false
	}
	section := math.Floor(pos / tc.viewport)
	var raw int
	switch {
	case section <= 0:
	case section >= math.MaxInt32:
		raw = math.MaxInt32
	default:
		raw = int(section)
	}
	tc.state.LastScrollSection = raw

	target := clamp(raw, 0, len(tc.themes)-1)
	if target == tc.state.CurrentThemeIndex {
		return false
	}
	tc.transition(target)
	return true
}

func (tc *ThemeController) transition(to int) {
	from := tc.state.CurrentThemeIndex
	t := tc.themes[to]
	tc.state.CurrentThemeIndex = to

	if tc.reg != nil {
		tc.reg.Apply(t)
	}
	if tc.overlay != nil {
		tc.overlay.Flash(t)
	}
	tc.log.Info("world %d -> %d (%s)", from, to, t.Name)
	tc.bus.Emit(Event{Type: EventThemeChanged, From: from, To: to, Theme: t.Name})
}

func (tc *ThemeController) State() WorldState { return tc.state }

func (tc *ThemeController) Current() Theme { return tc.themes[tc.state.CurrentThemeIndex] }

// Themes returns a copy of the sequence.
func (tc *ThemeController) Themes() []Theme { return append([]Theme(nil), tc.themes...) }
