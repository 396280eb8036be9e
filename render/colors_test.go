package render

import (
	"testing"
)

func TestProgressColor(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		wantZero bool // true if expecting black (unfilled)
	}{
		{"Negative progress", -0.1, true},
		{"Zero progress", 0.0, true},
		{"Small progress", 0.001, false},
		{"First segment", 0.2, false},
		{"Midpoint", 0.5, false},
		{"Late segment", 0.9, false},
		{"Max progress", 1.0, false},
		{"Over max progress", 1.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := ProgressColor(tt.progress).RGB()
			if tt.wantZero {
				if r != 0 || g != 0 || b != 0 {
					t.Errorf("Expected black for progress %f, got (%d,%d,%d)", tt.progress, r, g, b)
				}
				return
			}
			if r == 0 && g == 0 && b == 0 {
				t.Errorf("Expected non-black color for progress %f, got black", tt.progress)
			}
		})
	}
}

func TestProgressColorHitsStops(t *testing.T) {
	for _, s := range progressStops[1:] {
		r, g, b := ProgressColor(s.at).RGB()
		if r != s.r || g != s.g || b != s.b {
			t.Errorf("Expected (%d,%d,%d) at %.2f, got (%d,%d,%d)", s.r, s.g, s.b, s.at, r, g, b)
		}
	}
}

func TestParseClear(t *testing.T) {
	if c, ok := ParseClear("discard"); !ok || !c.Discard {
		t.Errorf("Expected discard clear, got %+v", c)
	}
	if c, ok := ParseClear("black"); !ok || c.Discard {
		t.Errorf("Expected black clear, got %+v ok=%v", c, ok)
	}
	if _, ok := ParseClear("not-a-color"); ok {
		t.Errorf("Expected unknown color to be rejected")
	}
}
