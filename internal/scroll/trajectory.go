package scroll

import (
	"math"
	"time"
)

const (
	// gravityEarth is standard gravity in m/s².
	gravityEarth = 9.80665
	// inchesPerMeter converts the deceleration into inches.
	inchesPerMeter = 39.37

	DefaultFriction = 0.015
	DefaultPPI      = 160
)

// Deceleration returns the fling deceleration in pixels per second squared
// for a screen density ppi and a dimensionless friction coefficient.
func Deceleration(ppi, friction float64) float64 {
	return gravityEarth * inchesPerMeter * ppi * friction
}

// Trajectory is a one-dimensional fling under constant friction. The pixel
// offset starts at 0 and grows in the direction of the initial velocity
// until the velocity has decayed to zero.
type Trajectory struct {
	start    time.Time
	velocity float64
	decel    float64
	duration time.Duration
}

// NewTrajectory starts a fling at start with the given initial velocity in
// pixels per second and deceleration in pixels per second squared.
func NewTrajectory(start time.Time, velocity, decel float64) *Trajectory {
	tr := &Trajectory{start: start, velocity: velocity, decel: decel}
	if decel > 0 {
		secs := math.Abs(velocity) / decel
		tr.duration = time.Duration(secs * float64(time.Second))
	}
	return tr
}

// Duration is the time until the trajectory comes to rest.
func (t *Trajectory) Duration() time.Duration {
	return t.duration
}

// Distance is the final resting offset.
func (t *Trajectory) Distance() int {
	return t.offsetAt(t.duration.Seconds())
}

// Offset returns the pixel offset at now and whether the trajectory has
// come to rest.
func (t *Trajectory) Offset(now time.Time) (offset int, done bool) {
	elapsed := now.Sub(t.start)
	if elapsed >= t.duration {
		return t.Distance(), true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return t.offsetAt(elapsed.Seconds()), false
}

func (t *Trajectory) offsetAt(secs float64) int {
	if t.decel <= 0 {
		return 0
	}
	dir := 1.0
	if t.velocity < 0 {
		dir = -1
	}
	return int(math.Round(t.velocity*secs - dir*0.5*t.decel*secs*secs))
}
