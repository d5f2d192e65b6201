package math

import (
	gomath "math"
	"testing"
)

func TestFromFloat64(t *testing.T) {
	src := [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0.5, 0.25, 1e-7, 1,
	}
	m := FromFloat64(src)

	if m[12] != 0.5 || m[13] != 0.25 {
		t.Errorf("translation: got (%f, %f), want (0.5, 0.25)", m[12], m[13])
	}
	if gomath.Abs(float64(m[14])-1e-7) > 1e-12 {
		t.Errorf("small component lost: got %g", m[14])
	}
	if m[15] != 1 {
		t.Errorf("[15] should be 1, got %f", m[15])
	}
}
