package models

// KeyLevels are the nearest and major price levels around the current price.
type KeyLevels struct {
	ImmediateSupport    float64 `json:"immediateSupport"`
	ImmediateResistance float64 `json:"immediateResistance"`
	MajorSupport        float64 `json:"majorSupport"`
	MajorResistance     float64 `json:"majorResistance"`
}

// Recommendation is the structured trading recommendation for one request.
type Recommendation struct {
	Trend        string    `json:"trend"`
	Support      []float64 `json:"support"`
	Resistance   []float64 `json:"resistance"`
	LongEntry    *float64  `json:"longEntry"`
	ShortEntry   *float64  `json:"shortEntry"`
	StopLoss     float64   `json:"stopLoss"`
	TakeProfit   []float64 `json:"takeProfit"`
	RiskScore    int       `json:"riskScore"`
	Confidence   int       `json:"confidence"`
	PositionSize string    `json:"positionSize"`
	Analysis     string    `json:"analysis"`
	Signals      []string  `json:"signals"`
	KeyLevels    KeyLevels `json:"keyLevels"`
}
