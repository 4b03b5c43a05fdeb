package orientation

import (
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestComputePoseFromAccelLevel(t *testing.T) {
	// Device flat, gravity straight down the Z axis.
	p := ComputePoseFromAccel(0, 0, 1)
	approx(t, "Roll", p.Roll, 0)
	approx(t, "Pitch", p.Pitch, 0)
	approx(t, "Yaw", p.Yaw, 0)
}

func TestComputePoseFromAccelTilted(t *testing.T) {
	// Gravity fully along +Y: rolled 90°.
	p := ComputePoseFromAccel(0, 1, 0)
	approx(t, "Roll", p.Roll, 90)
	approx(t, "Pitch", p.Pitch, 0)

	// Gravity fully along +X: pitched -90°.
	p = ComputePoseFromAccel(1, 0, 0)
	approx(t, "Pitch", p.Pitch, -90)

	// 45° roll.
	p = ComputePoseFromAccel(0, 1, 1)
	approx(t, "Roll", p.Roll, 45)
}

func TestComputePoseMagnitudeIndependent(t *testing.T) {
	// Tilt depends on ratios only, not on the units of the input.
	a := ComputePoseFromAccel(0.1, 0.2, 0.95)
	b := ComputePoseFromAccel(1638, 3277, 15565)
	if math.Abs(a.Roll-b.Roll) > 0.01 || math.Abs(a.Pitch-b.Pitch) > 0.01 {
		t.Errorf("pose not scale invariant: %+v vs %+v", a, b)
	}
}
