package math

import "math"

const dampEpsilon = 0.001

// Damper holds a value and the velocity carried between Damp calls.
// The zero value is at rest at 0.
type Damper struct {
	Value    float64
	Velocity float64
}

// Damp moves d.Value toward target with a critically damped spring.
// smoothTime is roughly the time to reach the target; dt is the frame time,
// both in seconds. Reports whether the value changed.
func (d *Damper) Damp(target, smoothTime, dt float64) bool {
	if math.Abs(d.Value-target) <= dampEpsilon {
		d.Value = target
		return false
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := d.Value - target
	temp := (d.Velocity + omega*change) * dt
	d.Velocity = (d.Velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// Never overshoot.
	if (target-d.Value > 0) == (out > target) {
		out = target
		if dt > 0 {
			d.Velocity = (out - target) / dt
		} else {
			d.Velocity = 0
		}
	}
	d.Value = out
	return true
}

// DampAngle is Damp for angles in radians; it takes the shortest way around.
// Within epsilon it lands on target itself, not on the unwrapped equivalent.
func (d *Damper) DampAngle(target, smoothTime, dt float64) bool {
	delta := DeltaAngle(d.Value, target)
	if math.Abs(delta) <= dampEpsilon {
		changed := d.Value != target
		d.Value = target
		d.Velocity = 0
		return changed
	}
	return d.Damp(d.Value+delta, smoothTime, dt)
}

// DeltaAngle returns the shortest signed difference target-current in (-π, π].
func DeltaAngle(current, target float64) float64 {
	delta := repeat(target-current, 2*math.Pi)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	}
	return delta
}

func repeat(t, length float64) float64 {
	return Clamp(t-math.Floor(t/length)*length, 0, length)
}
