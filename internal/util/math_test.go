package util

import (
	"math"
	"testing"
)

func TestAbsFloat64(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {3.5, 3.5}, {-3.5, 3.5},
	}
	for _, tt := range tests {
		if got := AbsFloat64(tt.in); got != tt.want {
			t.Errorf("AbsFloat64(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMaxFloat64(t *testing.T) {
	if got := MaxFloat64(1, 2); got != 2 {
		t.Errorf("MaxFloat64(1, 2) = %v", got)
	}
	if got := MaxFloat64(-1, -2); got != -1 {
		t.Errorf("MaxFloat64(-1, -2) = %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1e300) {
		t.Error("IsFinite(1e300) = false")
	}
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(x) {
			t.Errorf("IsFinite(%v) = true", x)
		}
	}
}

func TestPtr(t *testing.T) {
	p := Ptr(42.0)
	if p == nil || *p != 42.0 {
		t.Errorf("Ptr(42.0) = %v", p)
	}
}
