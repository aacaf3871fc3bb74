package layout

// Params tunes the force simulation. The zero value is not useful; start from
// DefaultParams.
type Params struct {
	LinkGap         float64 `yaml:"link_gap"`
	LinkStrength    float64 `yaml:"link_strength"`
	Charge          float64 `yaml:"charge"`
	DenseCharge     float64 `yaml:"dense_charge"`
	DenseThreshold  int     `yaml:"dense_threshold"`
	DistanceMin     float64 `yaml:"distance_min"`
	CollidePadding  float64 `yaml:"collide_padding"`
	CollideStrength float64 `yaml:"collide_strength"`
	RadialStep      float64 `yaml:"radial_step"`
	DenseRadialStep float64 `yaml:"dense_radial_step"`
	RadialStrength  float64 `yaml:"radial_strength"`
	AlphaDecay      float64 `yaml:"alpha_decay"`
	AlphaMin        float64 `yaml:"alpha_min"`
	AlphaTarget     float64 `yaml:"alpha_target"`
	VelocityDecay   float64 `yaml:"velocity_decay"`
	MaxIterations   int     `yaml:"max_iterations"`

	// WarmAlpha is the starting energy when every node already has a cached
	// position but the visible set, the virtual root or a relative depth
	// changed since the last settled run.
	WarmAlpha float64 `yaml:"warm_alpha"`

	// Palette overrides the depth colors when non-empty.
	Palette []string `yaml:"palette,omitempty"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		LinkGap:         60,
		LinkStrength:    0.5,
		Charge:          -400,
		DenseCharge:     -600,
		DenseThreshold:  15,
		DistanceMin:     1,
		CollidePadding:  25,
		CollideStrength: 0.8,
		RadialStep:      150,
		DenseRadialStep: 180,
		RadialStrength:  0.4,
		AlphaDecay:      0.03,
		AlphaMin:        0.001,
		AlphaTarget:     0,
		VelocityDecay:   0.4,
		MaxIterations:   300,
		WarmAlpha:       1,
	}
}

// dense reports whether n nodes crosses the crowding threshold.
func (p Params) dense(n int) bool {
	return n > p.DenseThreshold
}

func (p Params) charge(n int) float64 {
	if p.dense(n) {
		return p.DenseCharge
	}
	return p.Charge
}

func (p Params) radialStep(n int) float64 {
	if p.dense(n) {
		return p.DenseRadialStep
	}
	return p.RadialStep
}

func (p Params) color(relDepth int) string {
	if len(p.Palette) > 0 {
		return ColorFrom(p.Palette, relDepth)
	}
	return Color(relDepth)
}
