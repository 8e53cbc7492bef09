package util

import (
	"math"
	"testing"
)

func TestPercentDiff(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{100, 101, 1},
		{100, 99, 1},
		{2500, 2525, 1},
		{100, 100, 0},
		{0, 50, 0}, // zero base yields no gap
	}
	for _, tc := range cases {
		if got := PercentDiff(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("PercentDiff(%f, %f) = %f, want %f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRoundToPrecision(t *testing.T) {
	if got := RoundToPrecision(1.23456, 2); got != 1.23 {
		t.Errorf("RoundToPrecision(1.23456, 2) = %f", got)
	}
	if got := RoundToPrecision(1.005, 0); got != 1 {
		t.Errorf("RoundToPrecision(1.005, 0) = %f", got)
	}
	if got := RoundToPrecision(-1.26, 1); got != -1.3 {
		t.Errorf("RoundToPrecision(-1.26, 1) = %f", got)
	}
}
