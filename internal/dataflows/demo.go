package dataflows

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

const (
	DemoSeriesLength = 30
	DemoInterval     = time.Hour

	// fractions of the base price
	openNoise  = 0.01 // open is base ± half of this
	wickNoise  = 0.005
	minVolume  = 500_000
	volumeSpan = 1_000_000
)

// DemoGenerator produces synthetic hourly candles around a per-symbol base price.
type DemoGenerator struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand // nil uses the global source
}

type DemoOption func(*DemoGenerator)

// WithClock fixes the end of the generated series.
func WithClock(now func() time.Time) DemoOption {
	return func(g *DemoGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSeed makes the generated series reproducible.
func WithSeed(seed uint64) DemoOption {
	return func(g *DemoGenerator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func NewDemoGenerator(opts ...DemoOption) *DemoGenerator {
	g := &DemoGenerator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BasePrice returns the anchor price of symbol, or the neutral default.
func BasePrice(symbol string) float64 {
	if p, ok := consts.BasePrices[NormalizeSymbol(symbol)]; ok {
		return p
	}
	return consts.DefaultBasePrice
}

// Generate returns DemoSeriesLength candles one hour apart, the last one at "now".
// The timeframe does not change the spacing.
func (g *DemoGenerator) Generate(symbol, timeframe string) models.CandleSeries {
	base := BasePrice(symbol)
	end := g.now().UTC()

	g.mu.Lock()
	defer g.mu.Unlock()

	series := make(models.CandleSeries, 0, DemoSeriesLength)
	for i := DemoSeriesLength - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(i) * DemoInterval)

		open := base + (g.float()-0.5)*openNoise*base
		high := open + g.float()*wickNoise*base
		low := open - g.float()*wickNoise*base
		closePrice := low + g.float()*(high-low)

		series = append(series, models.Candle{
			Timestamp: ts,
			Open:      utils.RoundPrice(open),
			High:      utils.RoundPrice(high),
			Low:       utils.RoundPrice(low),
			Close:     utils.RoundPrice(closePrice),
			Volume:    minVolume + g.int64n(volumeSpan),
		})
	}
	return series
}

func (g *DemoGenerator) Fetch(_ context.Context, symbol, timeframe string) (models.CandleSeries, error) {
	return g.Generate(symbol, timeframe), nil
}

func (g *DemoGenerator) DataSource() string {
	return consts.DataSourceDemo
}

func (g *DemoGenerator) float() float64 {
	if g.rng != nil {
		return g.rng.Float64()
	}
	return rand.Float64()
}

func (g *DemoGenerator) int64n(n int64) int64 {
	if g.rng != nil {
		return g.rng.Int64N(n)
	}
	return rand.Int64N(n)
}
