package electric

import (
	"math"
	"math/rand/v2"
)

// particle holds per-particle simulation state. Unexported; managed by ParticleEmitter.
type particle struct {
	x, y    float64
	vx, vy  float64
	color   Color
	size    float64
	life    float64 // remaining lifetime in seconds
	maxLife float64 // initial lifetime (for fade and shrink)
}

// EmitterConfig controls how particles are spawned.
type EmitterConfig struct {
	// X and Y are the spawn point in surface coordinates.
	X, Y float64
	// Color is the color given to each new particle.
	Color Color
	// Count is the number of particles in a burst.
	Count int
	// Speed is the maximum initial speed in pixels per second.
	Speed float64
	// Lifetime is each particle's lifetime in seconds. Values <= 0 mean 1.
	Lifetime float64
	// Size is the initial particle radius.
	Size float64
	// Spread is the emission angle range in radians, centered on Direction.
	// 2π emits in every direction.
	Spread float64
	// Direction is the center of the emission cone in radians. 0 points
	// right and -π/2 points up.
	Direction float64
	// Gravity is a downward acceleration in pixels per second squared.
	Gravity float64
	// EmissionRate is particles per second. Zero selects burst mode.
	EmissionRate float64
	// Duration limits continuous emission in seconds. Zero is unbounded.
	Duration float64
	// MaxParticles caps the live set. New particles are silently dropped
	// when full. Zero is unbounded.
	MaxParticles int
}

// DefaultEmitterConfig returns a white 10-particle omnidirectional burst.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Color:    ColorWhite,
		Count:    10,
		Speed:    100,
		Lifetime: 1,
		Size:     5,
		Spread:   2 * math.Pi,
	}
}

// ParticleEmitter is a scene object that spawns, moves and fades particles.
// In burst mode it emits Count particles on the first update that finds no
// live particles, then waits for Play or Burst. In continuous mode it emits
// EmissionRate particles per second until Duration has elapsed.
type ParticleEmitter struct {
	config    EmitterConfig
	particles []particle
	emitTimer float64
	elapsed   float64
	active    bool // emitter runs emission at all
	autoEmit  bool // burst pending or continuous emission allowed
	emitted   int
	rand      func() float64
}

// NewParticleEmitter creates an active emitter.
func NewParticleEmitter(cfg EmitterConfig) *ParticleEmitter {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 1
	}
	return &ParticleEmitter{
		config:   cfg,
		active:   true,
		autoEmit: true,
		rand:     rand.Float64,
	}
}

// SetRand replaces the random source, which must return values in [0, 1).
func (e *ParticleEmitter) SetRand(fn func() float64) {
	if fn == nil {
		fn = rand.Float64
	}
	e.rand = fn
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *ParticleEmitter) Config() *EmitterConfig {
	return &e.config
}

// Position returns the spawn point.
func (e *ParticleEmitter) Position() Vec2 {
	return Vec2{e.config.X, e.config.Y}
}

// SetPosition moves the spawn point. Live particles are unaffected.
func (e *ParticleEmitter) SetPosition(x, y float64) {
	e.config.X, e.config.Y = x, y
}

// Play re-arms the emitter: a burst emitter bursts again once its live
// particles are gone, and a continuous emitter restarts its duration.
func (e *ParticleEmitter) Play() {
	e.active = true
	e.autoEmit = true
	e.elapsed = 0
}

// Stop halts emission. Live particles keep moving until they expire.
func (e *ParticleEmitter) Stop() {
	e.active = false
	e.autoEmit = false
}

// IsPlaying reports whether the emitter may still emit on its own.
func (e *ParticleEmitter) IsPlaying() bool {
	return e.active
}

// Burst emits n particles immediately. n <= 0 emits Count.
func (e *ParticleEmitter) Burst(n int) {
	if n <= 0 {
		n = e.config.Count
	}
	for range n {
		e.spawnParticle()
	}
}

// ClearParticles kills every live particle.
func (e *ParticleEmitter) ClearParticles() {
	e.particles = e.particles[:0]
}

// AliveCount returns the number of live particles.
func (e *ParticleEmitter) AliveCount() int {
	return len(e.particles)
}

// Emitted returns the number of particles spawned since creation.
func (e *ParticleEmitter) Emitted() int {
	return e.emitted
}

// Update advances live particles by dt seconds, then emits.
func (e *ParticleEmitter) Update(dt float64) {
	// Swap-remove dead particles.
	i := 0
	for i < len(e.particles) {
		p := &e.particles[i]
		p.vy += e.config.Gravity * dt
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.life -= dt
		if p.life <= 0 {
			last := len(e.particles) - 1
			e.particles[i] = e.particles[last]
			e.particles = e.particles[:last]
			continue
		}
		i++
	}

	if !e.active {
		return
	}
	rate := e.config.EmissionRate
	if rate > 0 {
		if e.config.Duration > 0 && e.elapsed >= e.config.Duration {
			e.autoEmit = false
			return
		}
		e.emitTimer += dt
		// The epsilon absorbs accumulated float error at exact interval
		// boundaries.
		n := int(math.Floor(e.emitTimer*rate + 1e-9))
		if n > 0 {
			e.emitTimer -= float64(n) / rate
			for range n {
				e.spawnParticle()
			}
		}
		e.elapsed += dt
		return
	}
	if e.autoEmit && len(e.particles) == 0 {
		e.Burst(e.config.Count)
		e.autoEmit = false
	}
}

// spawnParticle appends one particle at the spawn point.
func (e *ParticleEmitter) spawnParticle() {
	if e.config.MaxParticles > 0 && len(e.particles) >= e.config.MaxParticles {
		return
	}
	angle := e.config.Direction + e.rand()*e.config.Spread - e.config.Spread/2
	speed := e.rand() * e.config.Speed
	e.particles = append(e.particles, particle{
		x:       e.config.X,
		y:       e.config.Y,
		vx:      speed * math.Cos(angle),
		vy:      speed * math.Sin(angle),
		color:   e.config.Color,
		size:    e.config.Size,
		life:    e.config.Lifetime,
		maxLife: e.config.Lifetime,
	})
	e.emitted++
}

// Draw renders each particle as a filled circle whose alpha and radius
// shrink linearly with its remaining life.
func (e *ParticleEmitter) Draw(s Surface) {
	if len(e.particles) == 0 {
		return
	}
	s.Save()
	for i := range e.particles {
		p := &e.particles[i]
		t := p.life / p.maxLife
		s.SetGlobalAlpha(t)
		s.SetFill(p.color)
		s.BeginPath()
		s.Arc(p.x, p.y, p.size*t, 0, 2*math.Pi, false)
		s.Fill()
	}
	s.Restore()
}
