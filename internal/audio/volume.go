package audio

// gainRamp applies a linear volume, optionally moving toward a target over
// a number of samples.
type gainRamp struct {
	current float64
	target  float64
	step    float64
	left    int
}

func newGainRamp(level float64) gainRamp {
	level = clampLevel(level)
	return gainRamp{current: level, target: level}
}

// set moves the gain to level over samples samples (immediately when
// samples <= 0).
func (g *gainRamp) set(level float64, samples int) {
	level = clampLevel(level)
	g.target = level
	if samples <= 0 {
		g.current = level
		g.left = 0
		g.step = 0
		return
	}
	g.left = samples
	g.step = (level - g.current) / float64(samples)
}

// apply scales samples in place, advancing the ramp.
func (g *gainRamp) apply(samples [][2]float64) {
	for i := range samples {
		if g.left > 0 {
			g.left--
			g.current += g.step
			if g.left == 0 {
				g.current = g.target
			}
		}
		samples[i][0] *= g.current
		samples[i][1] *= g.current
	}
}
