package rng

// Scripted implements Roller returning a fixed sequence of values for tests.
// Float64 values come from Floats, IntN values from Ints. When a sequence is
// exhausted the last value repeats.
type Scripted struct {
	Floats []float64
	Ints   []int

	fi int
	ii int
}

// Float64 returns the next scripted float
func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi]
	if s.fi < len(s.Floats)-1 {
		s.fi++
	}
	return v
}

// IntN returns the next scripted int clamped to [0, n)
func (s *Scripted) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii]
	if s.ii < len(s.Ints)-1 {
		s.ii++
	}
	if v >= n {
		v = n - 1
	}
	return v
}
