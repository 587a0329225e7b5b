package core

import "github.com/zyedidia/generic/mapset"

// activation is one pending rocket resolution.
type activation struct {
	origin    Coord
	dirs      []Dir
	rocket    TileID // zero for a combo cross with no rocket at the origin
	triggered bool   // queued by another projectile rather than by the player
}

// Projectiles resolves rocket activations with a breadth-first work queue.
// Rockets hit by a projectile are queued once and fire after every earlier
// activation has finished.
type Projectiles struct {
	grid      *Grid
	queue     []activation
	queued    mapset.Set[TileID]
	removed   []Removal
	fired     int
	triggered int
}

// NewProjectiles creates a simulator bound to the grid.
func NewProjectiles(g *Grid) *Projectiles {
	return &Projectiles{
		grid:   g,
		queued: mapset.New[TileID](),
	}
}

// Fire queues the rocket at origin along its own axis.
func (p *Projectiles) Fire(origin Coord) {
	t := p.grid.At(origin)
	if t == nil || !t.Kind.IsSpecial() || p.queued.Has(t.ID) {
		return
	}
	p.queued.Put(t.ID)
	p.queue = append(p.queue, activation{origin: origin, dirs: t.Orientation.Dirs(), rocket: t.ID})
}

// FireCross queues a four-way clear centred on origin. The origin cell is
// expected to be empty already.
func (p *Projectiles) FireCross(origin Coord) {
	p.queue = append(p.queue, activation{origin: origin, dirs: Dirs})
}

// Run drains the queue and returns every removal in order.
func (p *Projectiles) Run() []Removal {
	for len(p.queue) > 0 {
		a := p.queue[0]
		p.queue = p.queue[1:]
		p.resolve(a)
	}
	return p.removed
}

// Fired returns how many activations ran.
func (p *Projectiles) Fired() int {
	return p.fired
}

// Triggered returns how many activations were chained by other projectiles.
func (p *Projectiles) Triggered() int {
	return p.triggered
}

func (p *Projectiles) resolve(a activation) {
	p.fired++
	if a.triggered {
		p.triggered++
	}

	for _, d := range a.dirs {
		for c := a.origin.Step(d); p.grid.InBounds(c); c = c.Step(d) {
			t := p.grid.At(c)
			switch {
			case t == nil:
			case t.Kind.IsBlocker():
			case t.Kind.IsSpecial():
				if !p.queued.Has(t.ID) {
					p.queued.Put(t.ID)
					p.queue = append(p.queue, activation{
						origin:    c,
						dirs:      t.Orientation.Dirs(),
						rocket:    t.ID,
						triggered: true,
					})
				}
			default:
				removeAt(p.grid, c, CauseLineClear, &p.removed)
			}
		}
	}

	if a.rocket == 0 {
		return
	}
	if t := p.grid.At(a.origin); t != nil && t.ID == a.rocket {
		removeAt(p.grid, a.origin, CauseRocket, &p.removed)
	}
}
