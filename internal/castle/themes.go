package castle

import "fmt"

// Theme is one named world palette. Themes are identified by their position
// in the sequence handed to the ThemeController.
type Theme struct {
	Name          string
	PrimaryColor  RGB
	AmbientColor  RGB
	FogDensity    float64
	ParticleColor RGB

	// Screen-space overlay shown by the host: a vertical gradient flashed on
	// transition and a radial depth tint whose opacity follows the scroll.
	OverlayTop    RGBA
	OverlayBottom RGBA
	DepthTint     RGBA
}

var (
	ThemeGoldenHorizon = Theme{
		Name:          "Golden Horizon",
		PrimaryColor:  Hex(0xffaa00),
		AmbientColor:  Hex(0x333333),
		FogDensity:    0.05,
		ParticleColor: Hex(0xffff00),
		OverlayTop:    RGBA{RGB: RGB{R: 253, G: 118, B: 0}, A: 0.8},
		OverlayBottom: RGBA{RGB: RGB{R: 255, G: 0, B: 0}, A: 0.7},
		DepthTint:     RGBA{RGB: RGB{R: 15, G: 14, B: 13}, A: 0.64},
	}
	ThemeCrimsonSky = Theme{
		Name:          "Crimson Sky",
		PrimaryColor:  Hex(0xff0000),
		AmbientColor:  Hex(0x440000),
		FogDensity:    0.06,
		ParticleColor: Hex(0xff0000),
		OverlayTop:    RGBA{RGB: RGB{R: 255, G: 0, B: 0}, A: 0.8},
		OverlayBottom: RGBA{RGB: RGB{R: 139, G: 0, B: 0}, A: 0.7},
		DepthTint:     RGBA{RGB: RGB{R: 255, G: 0, B: 0}, A: 0.2},
	}
	ThemeAzureDepths = Theme{
		Name:          "Azure Depths",
		PrimaryColor:  Hex(0x0000ff),
		AmbientColor:  Hex(0x000033),
		FogDensity:    0.04,
		ParticleColor: Hex(0x0000ff),
		OverlayTop:    RGBA{RGB: RGB{R: 0, G: 0, B: 255}, A: 0.8},
		OverlayBottom: RGBA{RGB: RGB{R: 0, G: 0, B: 139}, A: 0.7},
		DepthTint:     RGBA{RGB: RGB{R: 0, G: 0, B: 255}, A: 0.2},
	}
	// ThemeNeonJungle has a black ambient: only the primary lights carry colour.
	ThemeNeonJungle = Theme{
		Name:          "Neon Jungle",
		PrimaryColor:  Hex(0x00ffff),
		AmbientColor:  Hex(0x000000),
		FogDensity:    0.07,
		ParticleColor: Hex(0x00ffff),
		OverlayTop:    RGBA{RGB: RGB{R: 0, G: 255, B: 255}, A: 0.8},
		OverlayBottom: RGBA{RGB: RGB{R: 0, G: 139, B: 139}, A: 0.7},
		DepthTint:     RGBA{RGB: RGB{R: 0, G: 255, B: 255}, A: 0.2},
	}
)

// DefaultThemes returns a fresh copy of the built-in world sequence.
func DefaultThemes() []Theme {
	return []Theme{ThemeGoldenHorizon, ThemeCrimsonSky, ThemeAzureDepths, ThemeNeonJungle}
}

// ThemeByName looks a theme up in seq; the bool is false when absent.
func ThemeByName(seq []Theme, name string) (Theme, int, bool) {
	for i, t := range seq {
		if t.Name == name {
			return t, i, true
		}
	}
	return Theme{}, -1, false
}

// SelectThemes picks named worlds from the built-in set, in the given order.
// An empty list selects all of them.
func SelectThemes(names []string) ([]Theme, error) {
	all := DefaultThemes()
	if len(names) == 0 {
		return all, nil
	}
	out := make([]Theme, 0, len(names))
	for _, name := range names {
		t, _, ok := ThemeByName(all, name)
		if !ok {
			return nil, fmt.Errorf("unknown theme %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}
