package invite

import (
	"regexp"
	"testing"
)

func TestNewCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, pattern)
		}
		seen[code] = true
	}

	// 200 draws from a 32^8 space colliding would indicate a broken source.
	if len(seen) != 200 {
		t.Errorf("expected 200 distinct codes, got %d", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd2345", "ABCD2345"},
		{"  ABCD2345  ", "ABCD2345"},
		{"AbCd2345", "ABCD2345"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	if !Matches("ABCD2345", "abcd2345") {
		t.Error("expected case-insensitive match")
	}
	if !Matches("ABCD2345", " ABCD2345 ") {
		t.Error("expected whitespace-tolerant match")
	}
	if Matches("ABCD2345", "ABCD2346") {
		t.Error("expected mismatch for different code")
	}
	if Matches("ABCD2345", "ABCD234") {
		t.Error("expected mismatch for shorter code")
	}
	if Matches("ABCD2345", "ABCD23455") {
		t.Error("expected mismatch for longer code")
	}
	if Matches("", "") {
		t.Error("empty stored code must never match")
	}
}
