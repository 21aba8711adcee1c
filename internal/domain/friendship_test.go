package domain

import "testing"

func TestPairKeyFor(t *testing.T) {
	tests := []struct {
		name string
		a, b uint
		want string
	}{
		{"ordered", 1, 2, "1:2"},
		{"reversed", 2, 1, "1:2"},
		{"large ids", 1000000, 7, "7:1000000"},
		{"equal ids", 5, 5, "5:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PairKeyFor(tt.a, tt.b); got != tt.want {
				t.Errorf("PairKeyFor(%d, %d) = %q; want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPairKeyForIsDirectionAgnostic(t *testing.T) {
	if PairKeyFor(42, 17) != PairKeyFor(17, 42) {
		t.Error("pair key must be identical regardless of argument order")
	}
}
