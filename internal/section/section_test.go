package section

import "testing"

func TestOrderCoversAllTiers(t *testing.T) {
	inOrder := map[Name]bool{}
	for _, n := range Order {
		if inOrder[n] {
			t.Errorf("section %q listed twice in Order", n)
		}
		inOrder[n] = true
	}
	for _, group := range [][]Name{Required, MidTier, TopTier} {
		for _, n := range group {
			if !inOrder[n] {
				t.Errorf("section %q missing from Order", n)
			}
		}
	}
	if want := len(Required) + len(MidTier) + len(TopTier); len(Order) != want {
		t.Errorf("Order has %d sections, tiers define %d", len(Order), want)
	}
}

func TestKnown(t *testing.T) {
	for _, n := range Order {
		if !Known(n) {
			t.Errorf("Known(%q) = false, want true", n)
		}
	}
	if Known("totally_made_up") {
		t.Error(`Known("totally_made_up") = true, want false`)
	}
}

func TestIsRequired(t *testing.T) {
	for _, n := range Required {
		if !IsRequired(n) {
			t.Errorf("IsRequired(%q) = false, want true", n)
		}
	}
	for _, n := range append(append([]Name{}, MidTier...), TopTier...) {
		if IsRequired(n) {
			t.Errorf("IsRequired(%q) = true, want false", n)
		}
	}
}

func TestTitleNeverEmpty(t *testing.T) {
	for _, n := range Order {
		if Title(n) == "" {
			t.Errorf("Title(%q) is empty", n)
		}
	}
	// Unknown names fall back to the raw string.
	if got := Title("custom_section"); got != "custom_section" {
		t.Errorf("Title fallback = %q, want %q", got, "custom_section")
	}
}
