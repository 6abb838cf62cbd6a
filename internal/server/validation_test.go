package server

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Ana  ":         "Ana",
		"Ana\t María":     "Ana María",
		"  a  b   c ":     "a b c",
		"":                "",
		"   ":             "",
	}
	for input, want := range cases {
		if got := normalizeName(input); got != want {
			t.Fatalf("normalizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"#4DABF7":  "#4dabf7",
		"4dabf7":   "#4dabf7",
		" #ff6b6b": "#ff6b6b",
		"red":      "",
		"#fff":     "",
		"":         "",
	}
	for input, want := range cases {
		if got := normalizeColor(input); got != want {
			t.Fatalf("normalizeColor(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDefaultPlayerColorCycles(t *testing.T) {
	if defaultPlayerColor(0) == "" {
		t.Fatal("expected a color for index 0")
	}
	if defaultPlayerColor(0) != defaultPlayerColor(8) {
		t.Fatal("palette should cycle every 8 players")
	}
	if defaultPlayerColor(-1) != defaultPlayerColor(0) {
		t.Fatal("negative index should clamp to the first color")
	}
}
