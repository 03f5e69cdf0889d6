package registry_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/registry"
)

func TestRegistry_Get(t *testing.T) {
	r := registry.New()

	st, err := r.Get("receiving")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Table != "receiving_stats" {
		t.Errorf("expected table 'receiving_stats', got '%s'", st.Table)
	}
	if st.DefaultStat != "yards" {
		t.Errorf("expected default stat 'yards', got '%s'", st.DefaultStat)
	}

	if _, err := r.Get("kicking"); err == nil {
		t.Error("expected error for unknown stat type")
	}
}

func TestRegistry_Keys(t *testing.T) {
	r := registry.New()

	keys := r.Keys()
	expected := []string{"passing", "receiving", "rushing"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("key %d: expected '%s', got '%s'", i, expected[i], keys[i])
		}
	}

	tables := r.Tables()
	if tables[0] != "passing_stats" {
		t.Errorf("expected first table 'passing_stats', got '%s'", tables[0])
	}
}
