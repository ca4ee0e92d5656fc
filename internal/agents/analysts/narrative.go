package analysts

import (
	"fmt"
	"strconv"

	"github.com/dyike/CortexFX/consts"
)

const (
	RSIOverbought = "overbought"
	RSIOversold   = "oversold"
	RSINeutral    = "neutral"
)

// NarrativeInput carries everything the analysis sentence depends on.
type NarrativeInput struct {
	Symbol    string
	Timeframe string
	Trend     string
	AboveSMA  bool
	RSI       *float64
}

// RSIBand classifies rsi as overbought above 70, oversold below 30, otherwise neutral.
func RSIBand(rsi *float64) string {
	switch {
	case rsi == nil:
		return RSINeutral
	case *rsi > 70:
		return RSIOverbought
	case *rsi < 30:
		return RSIOversold
	default:
		return RSINeutral
	}
}

// Narrative renders the heuristic analysis text.
func Narrative(in NarrativeInput) string {
	smaSentence := "Price is below the 20-period SMA, indicating bearish pressure."
	if in.AboveSMA {
		smaSentence = "Price is trading above the 20-period SMA, suggesting bullish momentum."
	}

	rsiText := "N/A"
	if in.RSI != nil {
		rsiText = strconv.FormatFloat(*in.RSI, 'f', -1, 64)
	}

	var bandSentence string
	switch RSIBand(in.RSI) {
	case RSIOverbought:
		bandSentence = "suggests overbought conditions."
	case RSIOversold:
		bandSentence = "indicates oversold conditions."
	default:
		bandSentence = "is in neutral territory."
	}

	var directive string
	switch in.Trend {
	case consts.TrendBullish:
		directive = "Look for buying opportunities near support levels with a stop loss below the nearest support."
	case consts.TrendBearish:
		directive = "Consider selling opportunities near resistance with a stop above the nearest resistance level."
	default:
		directive = "The market is showing mixed signals. Wait for clearer direction before entering a position."
	}

	return fmt.Sprintf("%s is currently showing a %s trend on the %s timeframe. %s The RSI at %s %s %s",
		in.Symbol, in.Trend, in.Timeframe, smaSentence, rsiText, bandSentence, directive)
}
