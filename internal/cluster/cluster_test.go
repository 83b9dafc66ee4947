package cluster

import (
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "Ana Lima", "Ana Lima", 1.0},
		{"case and accents ignored", "José Silva", "jose silva", 1.0},
		{"trailing whitespace ignored", "anderson seixas ", "Anderson Seixas", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.expected {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestBuildCanonicalMapMergesNearDuplicates(t *testing.T) {
	values := []string{"Anderson Seixas", "anderson seixas ", "Ana Lima"}

	m := BuildCanonicalMap(values, DefaultThreshold)

	if m["Anderson Seixas"] != m["anderson seixas "] {
		t.Errorf("expected near-duplicates to share a canonical value, got %q and %q",
			m["Anderson Seixas"], m["anderson seixas "])
	}
	if m["Ana Lima"] != "Ana Lima" {
		t.Errorf("expected distinct name to map to itself, got %q", m["Ana Lima"])
	}
}

func TestBuildCanonicalMapMostFrequentWins(t *testing.T) {
	values := []string{"Carlos Souza", "Carlos Souza", "carlos souza", "Carlos Souza"}

	m := BuildCanonicalMap(values, DefaultThreshold)

	if m["carlos souza"] != "Carlos Souza" {
		t.Errorf("expected most frequent spelling as canonical, got %q", m["carlos souza"])
	}
}

func TestBuildCanonicalMapTotality(t *testing.T) {
	values := []string{"Alpha", "Beta", "Gamma", "alpha", "", "  "}

	m := BuildCanonicalMap(values, DefaultThreshold)

	inputs := map[string]bool{"Alpha": true, "Beta": true, "Gamma": true, "alpha": true}
	for v := range inputs {
		canon, ok := m[v]
		if !ok {
			t.Errorf("value %q missing from canonical map", v)
			continue
		}
		if !inputs[canon] {
			t.Errorf("canonical %q for %q is not drawn from the input set", canon, v)
		}
	}
	if _, ok := m[""]; ok {
		t.Error("blank values must not appear in the canonical map")
	}
}

func TestBuildCanonicalMapThresholdBoundary(t *testing.T) {
	// 100-char strings: 14 substitutions give similarity exactly 0.86,
	// 15 give 0.85. The threshold is inclusive.
	base := strings.Repeat("a", 100)
	at := strings.Repeat("b", 14) + strings.Repeat("a", 86)
	below := strings.Repeat("b", 15) + strings.Repeat("a", 85)

	if got := Similarity(base, at); got != 0.86 {
		t.Fatalf("Similarity at boundary = %v, want 0.86", got)
	}

	m := BuildCanonicalMap([]string{base, base, at}, 0.86)
	if m[at] != base {
		t.Errorf("similarity exactly at threshold must merge, got canonical %q", m[at])
	}

	m = BuildCanonicalMap([]string{base, base, below}, 0.86)
	if m[below] != below {
		t.Errorf("similarity below threshold must not merge, got canonical %q", m[below])
	}
}

func TestBuildCanonicalMapEdgeCases(t *testing.T) {
	if m := BuildCanonicalMap(nil, DefaultThreshold); len(m) != 0 {
		t.Errorf("empty input must produce empty map, got %v", m)
	}
	m := BuildCanonicalMap([]string{"Solo"}, DefaultThreshold)
	if m["Solo"] != "Solo" {
		t.Errorf("single value must map to itself, got %v", m)
	}
}

func TestBuildCanonicalMapDeterministic(t *testing.T) {
	values := []string{"Ana Lima", "ana lima", "Ana Limma", "Bruno Dias", "bruno dias"}

	first := BuildCanonicalMap(values, DefaultThreshold)
	for range 10 {
		again := BuildCanonicalMap(values, DefaultThreshold)
		for k, v := range first {
			if again[k] != v {
				t.Fatalf("canonical map not deterministic: %q -> %q vs %q", k, v, again[k])
			}
		}
	}
}
