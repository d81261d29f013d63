package service

import "testing"

func TestGenerateVerificationCodeRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if code < 100000 || code > 999999 {
			t.Fatalf("code out of range: %d", code)
		}
	}
}

func TestGenerateVerificationCodeVaries(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("generator returned a constant code")
	}
}
