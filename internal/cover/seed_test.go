package cover

import "testing"

func TestDeriveSeed(t *testing.T) {
	tests := []struct {
		title, callNumber string
		want              int64
	}{
		{"", "AB", 131},
		{"ignored", "AB", 131},
		{"AB", "", 131},
		{"The Hobbit", "", 921},
		{"The Hobbit", "PR6039.O32 H6", 756},
		// Bytes, not runes: "é" is 0xC3 0xA9.
		{"é", "", 0xC3 + 0xA9},
	}
	for _, tc := range tests {
		for i := 0; i < 2; i++ {
			if got := DeriveSeed(tc.title, tc.callNumber, nil); got != tc.want {
				t.Errorf("DeriveSeed(%q, %q) = %d, want %d", tc.title, tc.callNumber, got, tc.want)
			}
		}
	}
}

func TestDeriveSeedRandomFallback(t *testing.T) {
	if got := DeriveSeed("", "", fixedRandom(0)); got != 16 {
		t.Errorf("lowest seed = %d, want 16", got)
	}
	if got := DeriveSeed("", "", fixedRandom(1<<40)); got != 1<<32 {
		t.Errorf("highest seed = %d, want %d", got, int64(1)<<32)
	}
	for i := 0; i < 100; i++ {
		got := DeriveSeed("", "", nil)
		if got < 16 || got > 1<<32 {
			t.Fatalf("random seed %d out of range", got)
		}
	}
}
