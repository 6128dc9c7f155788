package notify

import "testing"

func TestPriceSeverity(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.8, "high"},
		{0.71, "high"},
		{0.7, "medium"},
		{0.5, "medium"},
		{0.4, "low"},
		{0, "low"},
	}
	for _, c := range cases {
		if got := PriceSeverity(c.score); got != c.want {
			t.Errorf("PriceSeverity(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestPairSeverity(t *testing.T) {
	if got := PairSeverity(0.95, 0.90); got != "high" {
		t.Errorf("expected high, got %s", got)
	}
	if got := PairSeverity(0.90, 0.90); got != "medium" {
		t.Errorf("expected medium at exact threshold, got %s", got)
	}
	if got := PairSeverity(0.75, 0.90); got != "medium" {
		t.Errorf("expected medium, got %s", got)
	}
}

func TestGroupSeverity(t *testing.T) {
	if got := GroupSeverity(4); got != "high" {
		t.Errorf("expected high at size 4, got %s", got)
	}
	if got := GroupSeverity(5); got != "high" {
		t.Errorf("expected high at size 5, got %s", got)
	}
	if got := GroupSeverity(3); got != "medium" {
		t.Errorf("expected medium at size 3, got %s", got)
	}
}
