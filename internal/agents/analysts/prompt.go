package analysts

import (
	"fmt"
	"strconv"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

// RecentCandles is how many of the latest candles are quoted in the prompt.
const RecentCandles = 10

const notAvailable = "N/A"

func newChatTemplate() (prompt.ChatTemplate, error) {
	systemPrompt, err := utils.LoadPrompt("analysts/forex_system")
	if err != nil {
		return nil, err
	}
	userPrompt, err := utils.LoadPrompt("analysts/forex_analyst")
	if err != nil {
		return nil, err
	}
	return prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	), nil
}

// PromptVariables builds the template variables for one analysis request.
func PromptVariables(symbol, timeframe string, series models.CandleSeries, ind *models.IndicatorSnapshot) map[string]any {
	if ind == nil {
		ind = &models.IndicatorSnapshot{}
	}
	if timeframe == "" {
		timeframe = "1H"
	}

	currentPrice := notAvailable
	if last, ok := series.Last(); ok {
		currentPrice = formatNumber(last.Close)
	}

	recent := series.Tail(RecentCandles)
	candles := make([]string, len(recent))
	for i, c := range recent {
		candles[i] = fmt.Sprintf("%d. Open: %s, High: %s, Low: %s, Close: %s",
			i+1, formatNumber(c.Open), formatNumber(c.High), formatNumber(c.Low), formatNumber(c.Close))
	}

	return map[string]any{
		"symbol":               symbol,
		"timeframe":            timeframe,
		"current_price":        currentPrice,
		"price_change":         formatOptional(ind.PriceChange),
		"price_change_percent": formatOptional(ind.PriceChangePercent),
		"sma20":                formatOptional(ind.SMA20),
		"sma50":                formatOptional(ind.SMA50),
		"rsi":                  formatOptional(ind.RSI),
		"candles":              candles,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return formatNumber(*v)
}
