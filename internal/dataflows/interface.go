package dataflows

import (
	"context"

	"github.com/dyike/CortexFX/models"
)

// SeriesSource supplies candles for a symbol and timeframe. The demo generator is the
// only implementation shipped; a live feed can be plugged in behind the same contract.
type SeriesSource interface {
	Fetch(ctx context.Context, symbol, timeframe string) (models.CandleSeries, error)
	// DataSource names the origin of the candles, e.g. "demo" or "live".
	DataSource() string
}
