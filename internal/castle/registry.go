package castle

// ThemeRegistry holds the scene elements a theme transition rewrites. Elements
// opt in by role when they are created; nothing is discovered by walking the scene.
type ThemeRegistry struct {
	ambient    []*Light
	primary    []*Light
	fog        []*Fog
	particles  []*ParticleField
	responsive []*Material
}

func NewThemeRegistry() *ThemeRegistry {
	return &ThemeRegistry{}
}

func (tr *ThemeRegistry) RegisterAmbient(l ...*Light) { tr.ambient = append(tr.ambient, l...) }
func (tr *ThemeRegistry) RegisterPrimary(l ...*Light) { tr.primary = append(tr.primary, l...) }
func (tr *ThemeRegistry) RegisterFog(f ...*Fog)       { tr.fog = append(tr.fog, f...) }
func (tr *ThemeRegistry) RegisterParticles(p ...*ParticleField) {
	tr.particles = append(tr.particles, p...)
}
func (tr *ThemeRegistry) RegisterResponsive(m ...*Material) {
	tr.responsive = append(tr.responsive, m...)
}

// Len reports how many elements are registered across all roles.
func (tr *ThemeRegistry) Len() int {
	return len(tr.ambient) + len(tr.primary) + len(tr.fog) + len(tr.particles) + len(tr.responsive)
}

// Apply rewrites every registered element for t. Callers run it between frames,
// so a frame never observes a half-applied theme.
func (tr *ThemeRegistry) Apply(t Theme) {
	for _, l := range tr.ambient {
		l.Color = t.AmbientColor
	}
	for _, l := range tr.primary {
		l.Color = t.PrimaryColor
	}
	for _, f := range tr.fog {
		f.Color = t.PrimaryColor
		f.Density = t.FogDensity
	}
	for _, p := range tr.particles {
		p.SetColor(t.ParticleColor)
	}
	for _, m := range tr.responsive {
		m.Color = t.PrimaryColor
		m.Emissive = t.PrimaryColor
	}
}

// Clear forgets every registration.
func (tr *ThemeRegistry) Clear() {
	*tr = ThemeRegistry{}
}
