package dataflows

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dyike/CortexFX/consts"
)

func TestGenerateEURUSD(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	g := NewDemoGenerator(WithClock(func() time.Time { return now }), WithSeed(7))

	series := g.Generate("EURUSD", "1H")
	if len(series) != 30 {
		t.Fatalf("expected 30 candles, got %d", len(series))
	}
	if err := series.Validate(); err != nil {
		t.Fatalf("generated series invalid: %v", err)
	}

	last, _ := series.Last()
	if !last.Timestamp.Equal(now) {
		t.Errorf("expected last candle at %s, got %s", now, last.Timestamp)
	}

	base := 1.0850
	for i, c := range series {
		if i > 0 {
			if gap := c.Timestamp.Sub(series[i-1].Timestamp); gap != time.Hour {
				t.Fatalf("candle %d: expected 1h spacing, got %s", i, gap)
			}
		}
		for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
			if math.Abs(p-base)/base > 0.015 {
				t.Fatalf("candle %d: price %v outside ±1.5%% of %v", i, p, base)
			}
			if p != math.Round(p*1e5)/1e5 {
				t.Fatalf("candle %d: price %v not rounded to 5 decimals", i, p)
			}
		}
		if c.Volume < 500000 || c.Volume >= 1500000 {
			t.Fatalf("candle %d: volume %d out of range", i, c.Volume)
		}
	}
}

func TestGenerateScalesNoiseWithBase(t *testing.T) {
	g := NewDemoGenerator(WithSeed(3))
	for _, c := range g.Generate("USDJPY", "4H") {
		if math.Abs(c.Close-149.50)/149.50 > 0.015 {
			t.Fatalf("close %v outside ±1.5%% of USDJPY base", c.Close)
		}
	}
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	a := NewDemoGenerator(WithClock(now), WithSeed(42)).Generate("GBPUSD", "1D")
	b := NewDemoGenerator(WithClock(now), WithSeed(42)).Generate("GBPUSD", "1D")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candle %d differs between identical seeds", i)
		}
	}
}

func TestBasePrice(t *testing.T) {
	if BasePrice("gbpusd") != 1.2650 {
		t.Errorf("expected GBPUSD base 1.2650")
	}
	if BasePrice("AUDUSD") != consts.DefaultBasePrice {
		t.Errorf("expected neutral base for AUDUSD")
	}
}

func TestFetchReportsDemoSource(t *testing.T) {
	g := NewDemoGenerator()
	series, err := g.Fetch(context.Background(), "NZDUSD", "1W")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(series) != DemoSeriesLength {
		t.Fatalf("expected %d candles, got %d", DemoSeriesLength, len(series))
	}
	if g.DataSource() != "demo" {
		t.Fatalf("expected demo data source, got %s", g.DataSource())
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol(" eurusd "); err != nil {
		t.Fatalf("expected lower-case symbol to validate: %v", err)
	}
	if err := ValidateSymbol(""); !errors.Is(err, ErrMissingSymbol) {
		t.Fatalf("expected ErrMissingSymbol, got %v", err)
	}
	err := ValidateSymbol("XXXYYY")
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
	for _, s := range consts.Symbols {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error message should list %s: %v", s, err)
		}
	}
}

func TestValidateTimeframe(t *testing.T) {
	tf, err := ValidateAndNormalizeTimeframe("")
	if err != nil || tf != "1H" {
		t.Fatalf("expected default 1H, got %q, %v", tf, err)
	}
	if tf, _ := ValidateAndNormalizeTimeframe("1d"); tf != "1D" {
		t.Fatalf("expected 1D, got %q", tf)
	}
	if err := ValidateTimeframe("15M"); !errors.Is(err, ErrInvalidTimeframe) {
		t.Fatalf("expected ErrInvalidTimeframe, got %v", err)
	}
}
