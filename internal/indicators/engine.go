// Package indicators derives the technical indicator snapshot of a candle series.
package indicators

import (
	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

const (
	MinLength = 20 // shortest series with any indicator
	SMAShort  = 20
	SMALong   = 50
	RSIPeriod = 14
)

// Compute returns the indicator snapshot of series. Series shorter than MinLength
// yield an empty snapshot. Fields whose computation is not finite are left absent.
func Compute(series models.CandleSeries) *models.IndicatorSnapshot {
	snap := &models.IndicatorSnapshot{}
	if series.Len() < MinLength {
		return snap
	}
	closes := series.Closes()

	if v, ok := SMA(closes, SMAShort); ok {
		snap.SMA20 = models.Float(utils.RoundPrice(v))
	}
	if v, ok := SMA(closes, SMALong); ok {
		snap.SMA50 = models.Float(utils.RoundPrice(v))
	}
	if v, ok := RSI(closes, RSIPeriod); ok {
		snap.RSI = models.Float(utils.RoundPercent(v))
	}

	last := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	if utils.IsFinite(last) {
		snap.CurrentPrice = models.Float(last)
	}
	if change := last - prev; utils.IsFinite(change) {
		snap.PriceChange = models.Float(utils.RoundPrice(change))
		if prev != 0 {
			if pct := change / prev * 100; utils.IsFinite(pct) {
				snap.PriceChangePercent = models.Float(utils.RoundPercent(pct))
			}
		}
	}
	return snap
}

// SMA is the mean of the last period closes.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	avg := sum / float64(period)
	return avg, utils.IsFinite(avg)
}

// RSI sums gains and losses over the most recent min(period, len-1) differences and
// divides both by period, without Wilder smoothing. Zero average loss reads as 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < 2 {
		return 0, false
	}
	n := min(period, len(closes)-1)

	var gains, losses float64
	for i := 1; i <= n; i++ {
		change := closes[len(closes)-i] - closes[len(closes)-i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if !utils.IsFinite(avgGain) || !utils.IsFinite(avgLoss) {
		return 0, false
	}
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
