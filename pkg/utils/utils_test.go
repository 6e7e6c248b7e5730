package utils

import "testing"

func TestCoalesceString(t *testing.T) {
	if got := CoalesceString("", "", "a", "b"); got != "a" {
		t.Errorf("CoalesceString: %q", got)
	}
	if got := CoalesceString(); got != "" {
		t.Errorf("CoalesceString empty: %q", got)
	}
}

func TestDefaultInt(t *testing.T) {
	if got := DefaultInt(0, 5); got != 5 {
		t.Errorf("DefaultInt(0, 5) = %d", got)
	}
	if got := DefaultInt(3, 5); got != 3 {
		t.Errorf("DefaultInt(3, 5) = %d", got)
	}
}

func TestDefaultFloat(t *testing.T) {
	if got := DefaultFloat(0, 1.3); got != 1.3 {
		t.Errorf("DefaultFloat(0, 1.3) = %v", got)
	}
	if got := DefaultFloat(2.5, 1.3); got != 2.5 {
		t.Errorf("DefaultFloat(2.5, 1.3) = %v", got)
	}
}

func TestClampFloat(t *testing.T) {
	cases := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{3.5, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}
	for _, tc := range cases {
		if got := ClampFloat(tc.v, tc.min, tc.max); got != tc.want {
			t.Errorf("ClampFloat(%v, %v, %v) = %v, want %v", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}
