package srcmesh

// Stream is a 64-bit splitmix64 generator. Each worker owns exactly one Stream
// for the lifetime of a run; streams are never shared between goroutines.
//
// Stream implements math/rand/v2.Source so it can back rand.New or the Src
// field of gonum distributions.
type Stream struct {
	state uint64
}

// NewStream returns a stream whose sequence is fully determined by seed.
func NewStream(seed uint64) *Stream {
	return &Stream{state: seed}
}

// NewStreamPool returns one stream per worker, stream i seeded with i.
func NewStreamPool(workers int) []*Stream {
	if workers < 1 {
		workers = 1
	}
	streams := make([]*Stream, workers)
	for i := range streams {
		streams[i] = NewStream(uint64(i))
	}
	return streams
}

// Uint64 advances the state and returns the next 64 random bits.
func (s *Stream) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a uniform variate in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) * 0x1.0p-53
}

// State exposes the current 64-bit state, mostly for tests.
func (s *Stream) State() uint64 { return s.state }
