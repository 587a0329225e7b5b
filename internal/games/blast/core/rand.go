package core

// Rand is the random source used by the simulation. *math/rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// ScriptedRand replays fixed values. Ints and Floats are consumed in order and
// wrap around when exhausted; an empty script returns zero. Intn results are
// reduced modulo n.
type ScriptedRand struct {
	Ints   []int
	Floats []float64
	ni, nf int
}

// Intn returns the next scripted integer modulo n.
func (s *ScriptedRand) Intn(n int) int {
	if n <= 0 {
		panic("core: Intn with non-positive n")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ni%len(s.Ints)]
	s.ni++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Float64 returns the next scripted float.
func (s *ScriptedRand) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.nf%len(s.Floats)]
	s.nf++
	return v
}
