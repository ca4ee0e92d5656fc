package consts

const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

const (
	SignalBuy  = "buy"
	SignalSell = "sell"
	SignalHold = "hold"
)

// Provenance tags attached to every analysis result.
const (
	ProvenanceHeuristic = "heuristic"
	ProvenanceExternal  = "external-reasoning"
	ProvenanceFallback  = "fallback"
)

const (
	DataSourceDemo = "demo"
	DataSourceLive = "live"
)

// Model name reported when no external capability produced the result.
const HeuristicModel = "heuristic-v1"
