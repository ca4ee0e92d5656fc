package utils

import (
	"math"
	"testing"
)

func TestRoundPrice(t *testing.T) {
	cases := map[float64]float64{
		1.0850049:  1.08500,
		1.0850051:  1.08501,
		149.123456: 149.12346,
		-0.000004:  0,
	}
	for in, want := range cases {
		if got := RoundPrice(in); got != want {
			t.Errorf("RoundPrice(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRoundPercent(t *testing.T) {
	if got := RoundPercent(0.125); got != 0.13 {
		t.Errorf("RoundPercent(0.125) = %v, want 0.13", got)
	}
	if got := RoundPercent(-1.234); got != -1.23 {
		t.Errorf("RoundPercent(-1.234) = %v, want -1.23", got)
	}
}

func TestRoundKeepsNonFinite(t *testing.T) {
	if got := RoundPrice(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf to pass through, got %v", got)
	}
	if got := RoundPrice(math.NaN()); !math.IsNaN(got) {
		t.Errorf("expected NaN to pass through, got %v", got)
	}
}

func TestScale(t *testing.T) {
	if got := Scale(1.1, 0.997); got != 1.0967 {
		t.Fatalf("Scale(1.1, 0.997) = %v, want 1.0967", got)
	}
	if got := Scale(1.1, 1.015); got != 1.1165 {
		t.Fatalf("Scale(1.1, 1.015) = %v, want 1.1165", got)
	}
}

func TestLoadPrompt(t *testing.T) {
	content, err := LoadPrompt("analysts/forex_analyst")
	if err != nil {
		t.Fatalf("LoadPrompt: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("expected prompt content")
	}
	if _, err := LoadPrompt("analysts/missing"); err == nil {
		t.Fatal("expected error for missing prompt")
	}
}
