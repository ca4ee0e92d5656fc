package analysts

import (
	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

const (
	bullishRSIAbove = 50.0
	bearishRSIBelow = 40.0
)

// ClassifyTrend maps RSI to a trend: bullish above 50, bearish below 40, neutral
// otherwise or when RSI is absent.
func ClassifyTrend(rsi *float64) string {
	switch {
	case rsi == nil:
		return consts.TrendNeutral
	case *rsi > bullishRSIAbove:
		return consts.TrendBullish
	case *rsi < bearishRSIBelow:
		return consts.TrendBearish
	default:
		return consts.TrendNeutral
	}
}

// Heuristic derives a complete recommendation from the current price and indicators
// without any external call. The result depends only on its arguments.
func Heuristic(symbol, timeframe string, price float64, ind *models.IndicatorSnapshot) *models.Recommendation {
	if !usablePrice(price) {
		return LastResort(price, "No usable current price. Using fallback analysis.")
	}
	if ind == nil {
		ind = &models.IndicatorSnapshot{}
	}

	trend := ClassifyTrend(ind.RSI)
	aboveSMA := ind.SMA20 != nil && price > *ind.SMA20

	rec := &models.Recommendation{
		Trend:      trend,
		Support:    scaleAll(price, 0.995, 0.992, 0.99),
		Resistance: scaleAll(price, 1.005, 1.008, 1.01),
		KeyLevels: models.KeyLevels{
			ImmediateSupport:    utils.Scale(price, 0.998),
			ImmediateResistance: utils.Scale(price, 1.002),
			MajorSupport:        utils.Scale(price, 0.995),
			MajorResistance:     utils.Scale(price, 1.005),
		},
		Analysis: Narrative(NarrativeInput{
			Symbol:    symbol,
			Timeframe: timeframe,
			Trend:     trend,
			AboveSMA:  aboveSMA,
			RSI:       ind.RSI,
		}),
	}

	if trend != consts.TrendBearish {
		rec.LongEntry = models.Float(utils.Scale(price, 1.0005))
	}
	if trend != consts.TrendBullish {
		rec.ShortEntry = models.Float(utils.Scale(price, 0.9995))
	}

	switch trend {
	case consts.TrendBullish:
		rec.StopLoss = utils.Scale(price, 0.997)
		rec.TakeProfit = scaleAll(price, 1.01, 1.015)
		rec.RiskScore = 3
		rec.Confidence = 75
		rec.PositionSize = "2-3%"
		rec.Signals = []string{consts.SignalBuy}
	case consts.TrendBearish:
		rec.StopLoss = utils.Scale(price, 1.003)
		rec.TakeProfit = scaleAll(price, 0.99, 0.985)
		rec.RiskScore = 7
		rec.Confidence = 75
		rec.PositionSize = "2-3%"
		rec.Signals = []string{consts.SignalSell}
	default:
		rec.StopLoss = utils.Scale(price, 1.003)
		rec.TakeProfit = scaleAll(price, 0.99, 0.985)
		rec.RiskScore = 5
		rec.Confidence = 50
		rec.PositionSize = "1-2%"
		rec.Signals = []string{consts.SignalHold}
	}
	return rec
}

// LastResort is the conservative neutral recommendation used when no usable price
// exists. A non-positive or non-finite price is replaced by 1.0.
func LastResort(price float64, reason string) *models.Recommendation {
	if !usablePrice(price) {
		price = 1.0
	}
	analysis := "The market appears to be in a consolidation phase. Consider waiting for a clearer trend to emerge before entering a position."
	if reason != "" {
		analysis = reason + " " + analysis
	}
	return &models.Recommendation{
		Trend:        consts.TrendNeutral,
		Support:      scaleAll(price, 0.995, 0.99),
		Resistance:   scaleAll(price, 1.005, 1.01),
		StopLoss:     utils.Scale(price, 0.99),
		TakeProfit:   scaleAll(price, 1.01),
		RiskScore:    5,
		Confidence:   50,
		PositionSize: "1-2%",
		Analysis:     analysis,
		Signals:      []string{consts.SignalHold},
		KeyLevels: models.KeyLevels{
			ImmediateSupport:    utils.Scale(price, 0.998),
			ImmediateResistance: utils.Scale(price, 1.002),
			MajorSupport:        utils.Scale(price, 0.995),
			MajorResistance:     utils.Scale(price, 1.005),
		},
	}
}

func usablePrice(price float64) bool {
	return utils.IsFinite(price) && price > 0
}

func scaleAll(price float64, factors ...float64) []float64 {
	out := make([]float64, len(factors))
	for i, f := range factors {
		out[i] = utils.Scale(price, f)
	}
	return out
}
