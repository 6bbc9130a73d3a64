package shared

import "testing"

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Errorf("expected distinct ids, got %s twice", a)
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
}

func TestClamp(t *testing.T) {
	tc := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{name: "within range", v: 0.5, lo: -1, hi: 1, want: 0.5},
		{name: "below lower bound", v: -3.2, lo: -1, hi: 1, want: -1},
		{name: "above upper bound", v: 2.7, lo: -1, hi: 1, want: 1},
		{name: "at bound", v: 1, lo: -1, hi: 1, want: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}
