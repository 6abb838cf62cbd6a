package server

import (
	"strings"
	"testing"
)

func TestNewIDCarriesPrefix(t *testing.T) {
	id := newID("game")
	if !strings.HasPrefix(id, "game-") {
		t.Fatalf("expected game- prefix, got %q", id)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := newID("round")
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
