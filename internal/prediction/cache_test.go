package prediction

import "testing"

func TestCache_MissingEntryRendersPlaceholder(t *testing.T) {
	c := NewCache()
	if got := c.Text("0", "0-U-4"); got != Placeholder {
		t.Errorf("Text for absent entry = %q, want %q", got, Placeholder)
	}
}

func TestCache_ReplaceAllRekeysByID(t *testing.T) {
	c := NewCache()
	c.ReplaceAll(map[string][]Prediction{
		"0": {{ID: "0-U-0", Color: "W", Confidence: 0.92, Label: "W-0.92"}},
	})

	if got := c.Text("0", "0-U-0"); got != "W-0.92" {
		t.Errorf("Text = %q, want W-0.92", got)
	}

	p, ok := c.Lookup("0", "0-U-0")
	if !ok {
		t.Fatal("Lookup missed a cached entry")
	}
	if p.Color != "W" || p.Confidence != 0.92 {
		t.Errorf("cached prediction = %+v", p)
	}

	if _, ok := c.Lookup("1", "0-U-0"); ok {
		t.Error("entry leaked across cameras")
	}
}

func TestCache_ReplaceAllIsWholesale(t *testing.T) {
	c := NewCache()
	c.ReplaceAll(map[string][]Prediction{
		"0": {{ID: "0-U-0", Label: "W-0.92"}},
		"1": {{ID: "1-D-0", Label: "O-0.80"}},
	})
	c.ReplaceAll(map[string][]Prediction{
		"0": {{ID: "0-F-1", Label: "B-0.71"}},
	})

	if _, ok := c.Lookup("0", "0-U-0"); ok {
		t.Error("stale camera 0 entry survived the replace")
	}
	if _, ok := c.Lookup("1", "1-D-0"); ok {
		t.Error("stale camera 1 entry survived the replace")
	}
	if got := c.Text("0", "0-F-1"); got != "B-0.71" {
		t.Errorf("fresh entry missing, Text = %q", got)
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache()
	c.ReplaceAll(map[string][]Prediction{"0": {{ID: "x", Label: "G-0.99"}}})
	c.Clear()
	if got := c.Text("0", "x"); got != Placeholder {
		t.Errorf("Text after Clear = %q, want %q", got, Placeholder)
	}
}

func TestCache_EmptyLabelFallsBack(t *testing.T) {
	c := NewCache()
	c.ReplaceAll(map[string][]Prediction{"0": {{ID: "x"}}})
	if got := c.Text("0", "x"); got != Placeholder {
		t.Errorf("Text for empty label = %q, want %q", got, Placeholder)
	}
}
