package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes a Glorot uniform weight initializer. Weights
// are drawn uniformly with variance scaled by the layer's fan-in and
// fan-out, multiplied by Gain.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a Glorot uniform weight initializer with the
// argument gain
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of initializer the config creates
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the Gorgonia InitWFn the config describes
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes a Glorot normal weight initializer, the
// normally distributed counterpart of GlorotUConfig. This is the
// initializer policy and value networks are built with by default.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a Glorot normal weight initializer with the
// argument gain
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of initializer the config creates
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the Gorgonia InitWFn the config describes
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
