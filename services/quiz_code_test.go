package services

import (
	"strings"
	"testing"
)

func TestRandomQuizCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := randomQuizCode()
		if len(code) != 8 {
			t.Fatalf("expected 8 characters, got %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code must be uppercase, got %q", code)
		}
		for _, ch := range code {
			if !strings.ContainsRune("0123456789ABCDEF", ch) {
				t.Fatalf("unexpected character %q in code %q", ch, code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("codes are not random")
	}
}

func TestNormalizeQuizCode(t *testing.T) {
	cases := map[string]string{
		"ab12cd34":    "AB12CD34",
		" AB12CD34 ":  "AB12CD34",
		"\tab12cd34\n": "AB12CD34",
		"AB12CD34":    "AB12CD34",
	}
	for in, want := range cases {
		if got := NormalizeQuizCode(in); got != want {
			t.Fatalf("NormalizeQuizCode(%q) = %q, want %q", in, got, want)
		}
	}
}
