package impl

import (
	"strconv"
	"testing"
)

func TestGenerateOTPShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
		seen[code] = true
	}
	// 200 draws from 900k values colliding down to a handful would mean
	// the generator is broken.
	if len(seen) < 150 {
		t.Fatalf("only %d distinct codes in 200 draws", len(seen))
	}
}
