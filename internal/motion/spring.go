// Package motion eases values toward targets with damped springs.
package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Params describes a spring in per-frame units at 60 Hz: each frame the
// velocity gains Stiffness times the distance to target and loses Damping
// times the current velocity.
type Params struct {
	Stiffness float64
	Damping   float64
}

var (
	// RotationParams drive the disc spin speed.
	RotationParams = Params{Stiffness: 0.05, Damping: 0.2}
	// ScaleParams drive the bass-reactive scale.
	ScaleParams = Params{Stiffness: 0.2, Damping: 0.5}
)

const referenceFPS = 60

// settleEpsilon is the distance and speed below which a spring is at rest.
const settleEpsilon = 1e-3

// AngularFrequency converts p to harmonica's angular frequency.
func (p Params) AngularFrequency() float64 {
	return referenceFPS * math.Sqrt(p.Stiffness)
}

// DampingRatio converts p to harmonica's damping ratio.
func (p Params) DampingRatio() float64 {
	if p.Stiffness <= 0 {
		return 1
	}
	return p.Damping / (2 * math.Sqrt(p.Stiffness))
}

// Spring is one eased value. It is not safe for concurrent use.
type Spring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewSpring returns a spring at rest on initial, stepped at fps updates per second.
func NewSpring(p Params, fps int, initial float64) *Spring {
	if fps <= 0 {
		fps = referenceFPS
	}
	return &Spring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), p.AngularFrequency(), p.DampingRatio()),
		pos:    initial,
		target: initial,
	}
}

// SetTarget moves the equilibrium point.
func (s *Spring) SetTarget(target float64) {
	s.target = target
}

// Target returns the current equilibrium point.
func (s *Spring) Target() float64 {
	return s.target
}

// Value returns the current eased value.
func (s *Spring) Value() float64 {
	return s.pos
}

// Update advances one frame and returns the new value.
func (s *Spring) Update() float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if s.Settled() {
		s.pos, s.vel = s.target, 0
	}
	return s.pos
}

// Settled reports whether the spring has come to rest on its target.
func (s *Spring) Settled() bool {
	return math.Abs(s.pos-s.target) < settleEpsilon && math.Abs(s.vel) < settleEpsilon
}

// Motion owns the rotation and scale springs and the accumulated spin angle
// the rendering layer draws with.
type Motion struct {
	Rotation *Spring
	Scale    *Spring

	angle float64
}

// New returns springs at rest: no spin, unit scale.
func New(fps int) *Motion {
	return &Motion{
		Rotation: NewSpring(RotationParams, fps, 0),
		Scale:    NewSpring(ScaleParams, fps, 1),
	}
}

// Step retargets both springs, advances them one frame and accumulates the
// spin angle in degrees.
func (m *Motion) Step(rotationTarget, scaleTarget float64) {
	m.Rotation.SetTarget(rotationTarget)
	m.Scale.SetTarget(scaleTarget)
	m.angle = math.Mod(m.angle+m.Rotation.Update(), 360)
	if m.angle < 0 {
		m.angle += 360
	}
	m.Scale.Update()
}

// Angle is the accumulated spin angle in [0, 360).
func (m *Motion) Angle() float64 {
	return m.angle
}

// Settled reports whether both springs are at rest.
func (m *Motion) Settled() bool {
	return m.Rotation.Settled() && m.Scale.Settled()
}
