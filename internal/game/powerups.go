package game

import (
	"slices"

	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

// ActiveEffect is a collected power-up still counting down.
type ActiveEffect struct {
	Kind      object.Kind
	Remaining int
}

// PowerUps spawns pickups, applies collected ones and ages their effects.
type PowerUps struct {
	kinds    []object.Kind
	max      int
	interval int
	duration int
	rng      grid.Rand
	placer   *grid.Placer

	pickups    []object.PowerUp
	remaining  map[object.Kind]int
	order      []object.Kind // Activation order of active effects
	spawnTimer int
}

// NewPowerUps creates a manager using the power-up fields of cfg.
func NewPowerUps(cfg Config, rng grid.Rand, placer *grid.Placer) *PowerUps {
	return &PowerUps{
		kinds:     slices.Clone(cfg.PowerUpKinds),
		max:       cfg.PowerUpCount,
		interval:  cfg.PowerUpSpawnInterval,
		duration:  cfg.PowerUpDuration,
		rng:       rng,
		placer:    placer,
		remaining: make(map[object.Kind]int),
	}
}

// Expire ages every active effect by one step. Effects reaching zero are
// reversed on e and returned in activation order.
func (m *PowerUps) Expire(e *Effects) []object.Kind {
	var expired []object.Kind
	for _, k := range m.order {
		m.remaining[k]--
		if m.remaining[k] <= 0 {
			expired = append(expired, k)
		}
	}
	for _, k := range expired {
		e.Reverse(k)
		m.deactivate(k)
	}
	return expired
}

// Spawn advances the spawn timer. When the interval is reached the timer is
// reset and, if the field has room, a pickup of a random kind is placed on a
// cell matching none of avoid and no other pickup. A placement that exhausts
// its attempts is skipped.
func (m *PowerUps) Spawn(avoid grid.Predicate) (object.PowerUp, bool) {
	m.spawnTimer++
	if m.spawnTimer < m.interval {
		return object.PowerUp{}, false
	}
	m.spawnTimer = 0

	if len(m.pickups) >= m.max || len(m.kinds) == 0 {
		return object.PowerUp{}, false
	}
	kind := m.kinds[m.rng.Intn(len(m.kinds))]
	cell, ok := m.placer.FindValidRandomCell(avoid, m.Occupied())
	if !ok {
		return object.PowerUp{}, false
	}
	p := object.PowerUp{Position: cell, Kind: kind}
	m.pickups = append(m.pickups, p)
	return p, true
}

// Collect picks up the pickup at head, if any, and applies it to e. A kind
// that is already active only has its duration refreshed.
func (m *PowerUps) Collect(head grid.Cell, e *Effects) (p object.PowerUp, refreshed, ok bool) {
	i := slices.IndexFunc(m.pickups, func(p object.PowerUp) bool { return p.Position == head })
	if i < 0 {
		return object.PowerUp{}, false, false
	}
	p = m.pickups[i]
	m.pickups = slices.Delete(m.pickups, i, i+1)

	if _, active := m.remaining[p.Kind]; active {
		refreshed = true
	} else {
		e.Apply(p.Kind)
		m.order = append(m.order, p.Kind)
	}
	m.remaining[p.Kind] = m.duration
	return p, refreshed, true
}

// Place puts a pickup on the field directly, bypassing the timer.
func (m *PowerUps) Place(p object.PowerUp) {
	m.pickups = append(m.pickups, p)
}

// Occupied matches cells holding an uncollected pickup.
func (m *PowerUps) Occupied() grid.Predicate {
	return func(c grid.Cell) bool {
		for _, p := range m.pickups {
			if p.Position == c {
				return true
			}
		}
		return false
	}
}

// Pickups returns a copy of the uncollected pickups.
func (m *PowerUps) Pickups() []object.PowerUp {
	return slices.Clone(m.pickups)
}

// Active returns the active effects in activation order.
func (m *PowerUps) Active() []ActiveEffect {
	out := make([]ActiveEffect, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, ActiveEffect{Kind: k, Remaining: m.remaining[k]})
	}
	return out
}

// Remaining returns the steps left on k and whether it is active.
func (m *PowerUps) Remaining(k object.Kind) (int, bool) {
	r, ok := m.remaining[k]
	return r, ok
}

// SpawnTimer returns the steps since the last spawn attempt.
func (m *PowerUps) SpawnTimer() int {
	return m.spawnTimer
}

func (m *PowerUps) deactivate(k object.Kind) {
	delete(m.remaining, k)
	m.order = slices.DeleteFunc(m.order, func(o object.Kind) bool { return o == k })
}
