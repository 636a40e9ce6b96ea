package engine

// Rand is a small, portable, seedable generator (SplitMix64). Generation
// runs must be reproducible across platforms given the same seed, so the
// engine never touches math/rand or crypto sources.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. The same seed always yields the same sequence.
func NewRand(seed int64) *Rand {
	return &Rand{state: uint64(seed)}
}

func (r *Rand) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Jitter returns a value in [-amplitude, amplitude].
func (r *Rand) Jitter(amplitude float64) float64 {
	return (r.Float64()*2 - 1) * amplitude
}

// WeightedIndex draws one index with probability proportional to its
// weight. Non-positive weights count as zero; if every weight is zero the
// first index wins.
func (r *Rand) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	target := r.Float64() * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
