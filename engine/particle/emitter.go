package particle

import (
	"math"
	"math/rand"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// TypeEmitter is the node type tag reported by particle emitters.
const TypeEmitter = "ParticleEmitter"

// EmitterConfig describes how an emitter spawns and moves its particles.
// Particles live in the emitter's local space and move with it.
type EmitterConfig struct {
	MaxParticles int        // pool size; spawning stops while the pool is full
	Rate         float32    // particles spawned per second while running
	MinLifetime  float32    // seconds
	MaxLifetime  float32    // seconds
	MinSpeed     float32    // initial speed in units per second
	MaxSpeed     float32    // initial speed in units per second
	Direction    mgl32.Vec3 // cone axis in local space, defaults to +Y
	Spread       float32    // cone half-angle in degrees
	Gravity      mgl32.Vec3 // constant acceleration in local space
	Size         float32    // particle diameter, pads the bounds
}

// Particle is the simulated state of a single particle.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Age      float32
	Lifetime float32
}

type emitter struct {
	object3d.Object3D

	config    EmitterConfig
	particles []Particle // live particles are particles[:count]
	count     int
	pending   float32 // fractional particles carried between updates
	running   bool
	light     light.Light

	objectOptions []object3d.Object3DBuilderOption
}

// Emitter is a scene graph node that simulates a pool of particles on the CPU.
// Randomness comes only from the *rand.Rand passed to Update and Burst, so two emitters
// driven by identically seeded sources produce identical particles.
type Emitter interface {
	object3d.Object3D

	// Config returns the emitter configuration.
	//
	// Returns:
	//   - EmitterConfig: the configuration
	Config() EmitterConfig

	// Start resumes continuous emission.
	Start()

	// Stop halts continuous emission. Live particles keep simulating until they expire.
	Stop()

	// Running reports whether continuous emission is active.
	//
	// Returns:
	//   - bool: true if running
	Running() bool

	// Update advances the simulation by dt seconds: ages and moves live particles,
	// retires expired ones and, while running, spawns new ones at the configured rate.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - rng: the random source for newly spawned particles; nil ages particles without spawning
	Update(dt float32, rng *rand.Rand)

	// Burst spawns up to n particles immediately, regardless of Running.
	//
	// Parameters:
	//   - n: the number of particles to spawn
	//   - rng: the random source for the new particles; nil spawns nothing
	//
	// Returns:
	//   - int: the number of particles actually spawned
	Burst(n int, rng *rand.Rand) int

	// Reset retires every particle.
	Reset()

	// Count returns the number of live particles.
	//
	// Returns:
	//   - int: the live particle count
	Count() int

	// Particles returns a copy of the live particles.
	//
	// Returns:
	//   - []Particle: the live particles in pool order
	Particles() []Particle

	// Light returns the ephemeral light attached to the emitter, or nil.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// BoundingSphere returns the local-space sphere around the live particles.
	//
	// Returns:
	//   - common.Sphere: the sphere
	//   - bool: false if there are no live particles
	BoundingSphere() (common.Sphere, bool)

	// BoundingBox returns the local-space box around the live particles.
	//
	// Returns:
	//   - common.Box3: the box
	//   - bool: false if there are no live particles
	BoundingBox() (common.Box3, bool)
}

var (
	_ Emitter          = &emitter{}
	_ object3d.Bounded = &emitter{}
)

// NewEmitter creates a detached, running particle emitter.
//
// Parameters:
//   - config: the emitter configuration (MaxParticles must be positive)
//   - options: functional options to configure the emitter
//
// Returns:
//   - Emitter: the newly created emitter
func NewEmitter(config EmitterConfig, options ...EmitterBuilderOption) Emitter {
	if config.MaxParticles <= 0 {
		panic("particle: MaxParticles must be positive")
	}
	if config.Direction.LenSqr() == 0 {
		config.Direction = common.AxisY
	}
	config.Direction = config.Direction.Normalize()
	if config.MaxLifetime < config.MinLifetime {
		config.MaxLifetime = config.MinLifetime
	}
	if config.MaxSpeed < config.MinSpeed {
		config.MaxSpeed = config.MinSpeed
	}

	e := &emitter{
		config:    config,
		particles: make([]Particle, config.MaxParticles),
		running:   true,
	}
	for _, option := range options {
		option(e)
	}
	nodeOptions := append([]object3d.Object3DBuilderOption{
		object3d.WithEmbedder(e),
		object3d.WithType(TypeEmitter),
	}, e.objectOptions...)
	e.Object3D = object3d.NewObject3D(nodeOptions...)
	e.objectOptions = nil

	if e.light != nil {
		e.light.SetEphemeral(true)
		e.light.SetEnabled(false)
		if err := e.AddChild(e.light); err != nil {
			common.Logger().Warn("particle: could not attach light", "emitter", e.ID(), "error", err)
			e.light = nil
		}
	}
	return e
}

func (e *emitter) Config() EmitterConfig {
	return e.config
}

func (e *emitter) Start() {
	e.running = true
}

func (e *emitter) Stop() {
	e.running = false
	e.pending = 0
}

func (e *emitter) Running() bool {
	return e.running
}

func (e *emitter) Update(dt float32, rng *rand.Rand) {
	if dt <= 0 {
		return
	}

	gravity := e.config.Gravity.Mul(dt)
	for i := 0; i < e.count; {
		p := &e.particles[i]
		p.Age += dt
		if p.Age >= p.Lifetime {
			// swap-remove keeps the live range contiguous
			e.count--
			e.particles[i] = e.particles[e.count]
			continue
		}
		p.Velocity = p.Velocity.Add(gravity)
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		i++
	}

	if e.running {
		e.pending += e.config.Rate * dt
		whole := int(e.pending)
		e.pending -= float32(whole)
		e.Burst(whole, rng)
	}
	e.syncLight()
}

func (e *emitter) Burst(n int, rng *rand.Rand) int {
	if rng == nil {
		if n > 0 {
			common.Logger().Warn("particle: no random source, skipping spawn", "emitter", e.ID(), "requested", n)
		}
		return 0
	}
	spawned := 0
	for ; spawned < n && e.count < len(e.particles); spawned++ {
		e.particles[e.count] = e.spawn(rng)
		e.count++
	}
	if spawned < n {
		common.Logger().Debug("particle: pool full", "emitter", e.ID(), "requested", n, "spawned", spawned)
	}
	e.syncLight()
	return spawned
}

func (e *emitter) Reset() {
	e.count = 0
	e.pending = 0
	e.syncLight()
}

func (e *emitter) Count() int {
	return e.count
}

func (e *emitter) Particles() []Particle {
	out := make([]Particle, e.count)
	copy(out, e.particles[:e.count])
	return out
}

func (e *emitter) Light() light.Light {
	return e.light
}

func (e *emitter) BoundingBox() (common.Box3, bool) {
	if e.count == 0 {
		return common.Box3{}, false
	}
	b := common.EmptyBox3()
	for i := 0; i < e.count; i++ {
		b = b.ExpandByPoint(e.particles[i].Position)
	}
	pad := mgl32.Vec3{e.config.Size, e.config.Size, e.config.Size}.Mul(0.5)
	return common.NewBox3(b.Min.Sub(pad), b.Max.Add(pad)), true
}

func (e *emitter) BoundingSphere() (common.Sphere, bool) {
	if e.count == 0 {
		return common.Sphere{}, false
	}
	positions := make([]mgl32.Vec3, e.count)
	for i := 0; i < e.count; i++ {
		positions[i] = e.particles[i].Position
	}
	s := common.SphereFromPoints(positions)
	s.Radius += e.config.Size * 0.5
	return s, true
}

// spawn draws a new particle at the emitter origin heading into the emission cone.
func (e *emitter) spawn(rng *rand.Rand) Particle {
	c := e.config
	speed := lerp(c.MinSpeed, c.MaxSpeed, rng.Float32())
	lifetime := lerp(c.MinLifetime, c.MaxLifetime, rng.Float32())
	dir := coneDirection(c.Direction, mgl32.DegToRad(c.Spread), rng)
	return Particle{
		Velocity: dir.Mul(speed),
		Lifetime: lifetime,
	}
}

func (e *emitter) syncLight() {
	if e.light != nil {
		e.light.SetEnabled(e.count > 0)
	}
}

// coneDirection returns a unit vector distributed uniformly over the spherical cap of
// half-angle spread around axis.
func coneDirection(axis mgl32.Vec3, spread float32, rng *rand.Rand) mgl32.Vec3 {
	cosMax := float32(math.Cos(float64(spread)))
	cosTheta := lerp(1, cosMax, rng.Float32())
	sinTheta := float32(math.Sqrt(float64(max(0, 1-cosTheta*cosTheta))))
	phi := rng.Float32() * 2 * math.Pi

	local := mgl32.Vec3{
		sinTheta * float32(math.Cos(float64(phi))),
		sinTheta * float32(math.Sin(float64(phi))),
		cosTheta,
	}
	return mgl32.QuatBetweenVectors(common.AxisZ, axis).Rotate(local).Normalize()
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
