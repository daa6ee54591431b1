package sim

import (
	"fmt"
	"math"

	"github.com/mucar/barw/internal/geom"
	"github.com/mucar/barw/internal/logging"
	"github.com/mucar/barw/internal/walk"
)

// Params configures one simulation run. The zero value is not usable; start
// from DefaultParams.
type Params struct {
	// Prob is the per-tip, per-step branching probability, in [0, 1].
	Prob float64

	// FC is the external guidance strength. 0 disables guidance; the design
	// range is roughly [0, 0.3].
	FC float64

	// FS is the self-interaction strength: negative for self-avoidance,
	// positive for self-attraction, 0 disabled.
	FS float64

	// TMax is the maximum number of steps. 0 is valid and yields only the
	// seed entries.
	TMax int

	// Seed initializes the run's private random source. Identical Params
	// produce identical results.
	Seed int64

	// Origin and Heading place the single seed tip.
	Origin  geom.Vec2
	Heading float64

	// Geometry holds the structural constants of the growth process.
	Geometry walk.Geometry

	// Trace, when non-nil, receives one JSONL event per executed step.
	Trace *logging.StepLogger
}

// DefaultParams returns the reference parameterization: sparse branching,
// mild upward guidance, mild self-avoidance, 200 steps.
func DefaultParams() Params {
	return Params{
		Prob:     0.05,
		FC:       0.1,
		FS:       -0.1,
		TMax:     200,
		Seed:     1,
		Origin:   geom.Vec2{X: 100, Y: 100},
		Heading:  math.Pi / 2,
		Geometry: walk.DefaultGeometry(),
	}
}

// Validate checks the parameters, failing fast before any stepping happens.
func (p Params) Validate() error {
	if p.Prob < 0 || p.Prob > 1 {
		return fmt.Errorf("branching probability must be in [0, 1], got %v", p.Prob)
	}
	if p.TMax < 0 {
		return fmt.Errorf("tmax must be non-negative, got %d", p.TMax)
	}
	g := p.Geometry
	if g.StepLength <= 0 {
		return fmt.Errorf("step length must be positive, got %v", g.StepLength)
	}
	if g.MinAngle <= 0 {
		return fmt.Errorf("minimum branch angle must be positive, got %v", g.MinAngle)
	}
	if g.RadAvoid <= 0 {
		return fmt.Errorf("avoidance radius must be positive, got %v", g.RadAvoid)
	}
	if g.RadTermin <= 0 {
		return fmt.Errorf("termination radius must be positive, got %v", g.RadTermin)
	}
	if g.Jitter < 0 {
		return fmt.Errorf("heading jitter must be non-negative, got %v", g.Jitter)
	}
	if g.TrailWindow < 0 {
		return fmt.Errorf("trail window must be non-negative, got %d", g.TrailWindow)
	}
	return nil
}
