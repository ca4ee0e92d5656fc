package consts

// Supported currency pairs, in the order they are presented to users.
var Symbols = []string{
	"EURUSD",
	"GBPUSD",
	"USDJPY",
	"USDCHF",
	"AUDUSD",
	"USDCAD",
	"NZDUSD",
}

// Supported chart timeframes.
var Timeframes = []string{
	"1H",
	"4H",
	"1D",
	"1W",
}

const (
	DefaultTimeframe = "1H"
	DefaultBasePrice = 1.0000
)

// BasePrices anchors the demo generator. Pairs missing here use DefaultBasePrice.
var BasePrices = map[string]float64{
	"EURUSD": 1.0850,
	"GBPUSD": 1.2650,
	"USDJPY": 149.50,
}
