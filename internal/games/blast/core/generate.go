package core

import "fmt"

// DefaultOverflowChance is the probability that a blocker at its quota may
// still be generated on a non-bottom row.
const DefaultOverflowChance = 0.15

// Quota tracks how many blockers of one kind a level may generate.
type Quota struct {
	Allowed  int
	Placed   int
	Overflow int // placements granted past Allowed by the override roll
}

// GenerationPolicy picks kinds for new tiles. Counters are cumulative for the
// whole level and only reset by Reset.
type GenerationPolicy struct {
	rng       Rand
	overflow  float64
	quotas    map[Kind]*Quota
	suspended bool
}

// NewGenerationPolicy creates a policy with the given blocker quotas.
// Only blocker kinds with a positive quota are ever generated.
func NewGenerationPolicy(rng Rand, quotas map[Kind]int, overflow float64) *GenerationPolicy {
	p := &GenerationPolicy{rng: rng, overflow: overflow}
	p.Reset(quotas)
	return p
}

// Reset replaces the quotas and zeroes every counter.
func (p *GenerationPolicy) Reset(quotas map[Kind]int) {
	p.quotas = make(map[Kind]*Quota)
	for k, n := range quotas {
		if !k.IsBlocker() || n <= 0 {
			continue
		}
		p.quotas[k] = &Quota{Allowed: n}
	}
}

// Quota returns a copy of the counters for a blocker kind.
func (p *GenerationPolicy) Quota(k Kind) Quota {
	if q, ok := p.quotas[k]; ok {
		return *q
	}
	return Quota{}
}

// Note records a blocker placed by an explicit layout.
func (p *GenerationPolicy) Note(k Kind) {
	if q, ok := p.quotas[k]; ok {
		q.Placed++
	}
}

// SuspendOverflow disables the override roll until the returned func is
// called. While suspended no blocker is generated past its quota.
func (p *GenerationPolicy) SuspendOverflow() (restore func()) {
	p.suspended = true
	return func() { p.suspended = false }
}

// ChooseKind returns the kind for a new tile at (column, row). Only the row
// affects eligibility.
func (p *GenerationPolicy) ChooseKind(column, row int) Kind {
	candidates := make([]Kind, 0, len(ColorKinds)+len(BlockerKinds))
	candidates = append(candidates, ColorKinds...)
	overflow := make(map[Kind]bool)

	for _, k := range BlockerKinds {
		q, ok := p.quotas[k]
		if !ok {
			continue
		}
		if row == 0 && k.BottomRestricted() {
			continue
		}
		if q.Placed >= q.Allowed {
			if row == 0 || p.suspended || p.rng.Float64() >= p.overflow {
				continue
			}
			overflow[k] = true
		}
		candidates = append(candidates, k)
	}

	k := candidates[p.rng.Intn(len(candidates))]
	if q, ok := p.quotas[k]; ok {
		q.Placed++
		if overflow[k] {
			q.Overflow++
		}
		p.check(k, q)
	}
	return k
}

func (p *GenerationPolicy) check(k Kind, q *Quota) {
	if q.Placed < 0 || q.Allowed < 0 || q.Overflow < 0 {
		panic(fmt.Sprintf("core: negative quota counter for %s: %+v", k, *q))
	}
}
