package analysts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

var requiredKeys = []string{
	"trend", "support", "resistance", "stopLoss", "takeProfit", "riskScore",
	"confidence", "positionSize", "analysis", "signals", "keyLevels",
}

// ParseResult is either a parsed recommendation or the reason it could not be parsed.
type ParseResult struct {
	Recommendation *models.Recommendation
	Reason         string
}

func (r ParseResult) OK() bool {
	return r.Recommendation != nil
}

func unparseable(format string, args ...any) ParseResult {
	return ParseResult{Reason: fmt.Sprintf(format, args...)}
}

type rawKeyLevels struct {
	ImmediateSupport    float64 `json:"immediateSupport"`
	ImmediateResistance float64 `json:"immediateResistance"`
	MajorSupport        float64 `json:"majorSupport"`
	MajorResistance     float64 `json:"majorResistance"`
}

type rawRecommendation struct {
	Trend        string        `json:"trend"`
	Support      []float64     `json:"support"`
	Resistance   []float64     `json:"resistance"`
	LongEntry    *float64      `json:"longEntry"`
	ShortEntry   *float64      `json:"shortEntry"`
	StopLoss     float64       `json:"stopLoss"`
	TakeProfit   []float64     `json:"takeProfit"`
	RiskScore    float64       `json:"riskScore"`
	Confidence   float64       `json:"confidence"`
	PositionSize string        `json:"positionSize"`
	Analysis     string        `json:"analysis"`
	Signals      []string      `json:"signals"`
	KeyLevels    *rawKeyLevels `json:"keyLevels"`
}

// ExtractJSONObject returns the first balanced {...} substring of s. Braces inside
// JSON strings are ignored.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseRecommendation extracts and validates a recommendation from model output,
// repairing what can be repaired.
func ParseRecommendation(content string) ParseResult {
	object, ok := ExtractJSONObject(content)
	if !ok {
		return unparseable("no JSON object in response")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &keys); err != nil {
		return unparseable("invalid JSON: %v", err)
	}
	for _, key := range requiredKeys {
		v, ok := keys[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return unparseable("missing required key %q", key)
		}
	}

	var raw rawRecommendation
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return unparseable("invalid field type: %v", err)
	}

	trend := strings.ToLower(strings.TrimSpace(raw.Trend))
	switch trend {
	case consts.TrendBullish, consts.TrendBearish, consts.TrendNeutral:
	default:
		return unparseable("unknown trend %q", raw.Trend)
	}

	if !utils.IsFinite(raw.StopLoss) || raw.StopLoss <= 0 {
		return unparseable("non-positive stopLoss %v", raw.StopLoss)
	}

	takeProfit := positivePrices(raw.TakeProfit)
	if len(takeProfit) == 0 {
		return unparseable("empty takeProfit")
	}

	signals := make([]string, 0, len(raw.Signals))
	for _, s := range raw.Signals {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case consts.SignalBuy, consts.SignalSell, consts.SignalHold:
			signals = append(signals, s)
		}
	}
	if len(signals) == 0 {
		return unparseable("no valid signal in %v", raw.Signals)
	}

	support := positivePrices(raw.Support)
	resistance := positivePrices(raw.Resistance)

	positionSize := strings.TrimSpace(raw.PositionSize)
	if positionSize == "" {
		positionSize = "1-2%"
	}

	confidence := raw.Confidence
	if confidence > 0 && confidence < 1 {
		confidence *= 100
	}

	rec := &models.Recommendation{
		Trend:        trend,
		Support:      support,
		Resistance:   resistance,
		LongEntry:    positivePrice(raw.LongEntry),
		ShortEntry:   positivePrice(raw.ShortEntry),
		StopLoss:     utils.RoundPrice(raw.StopLoss),
		TakeProfit:   takeProfit,
		RiskScore:    clampScore(raw.RiskScore, 1, 10),
		Confidence:   clampScore(confidence, 1, 100),
		PositionSize: positionSize,
		Analysis:     strings.TrimSpace(raw.Analysis),
		Signals:      signals,
		KeyLevels:    repairKeyLevels(raw.KeyLevels, support, resistance),
	}
	return ParseResult{Recommendation: rec}
}

func positivePrices(in []float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, v := range in {
		if utils.IsFinite(v) && v > 0 {
			out = append(out, utils.RoundPrice(v))
		}
	}
	return out
}

func positivePrice(v *float64) *float64 {
	if v == nil || !utils.IsFinite(*v) || *v <= 0 {
		return nil
	}
	return models.Float(utils.RoundPrice(*v))
}

func clampScore(v float64, lo, hi int) int {
	if !utils.IsFinite(v) {
		return lo
	}
	n := int(math.Round(v))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// repairKeyLevels fills missing or non-positive levels from the support and
// resistance ladders: nearest for immediate, furthest for major.
func repairKeyLevels(raw *rawKeyLevels, support, resistance []float64) models.KeyLevels {
	var kl models.KeyLevels
	if raw != nil {
		kl = models.KeyLevels{
			ImmediateSupport:    levelOrZero(raw.ImmediateSupport),
			ImmediateResistance: levelOrZero(raw.ImmediateResistance),
			MajorSupport:        levelOrZero(raw.MajorSupport),
			MajorResistance:     levelOrZero(raw.MajorResistance),
		}
	}
	if len(support) > 0 {
		if kl.ImmediateSupport == 0 {
			kl.ImmediateSupport = support[0]
		}
		if kl.MajorSupport == 0 {
			kl.MajorSupport = support[len(support)-1]
		}
	}
	if len(resistance) > 0 {
		if kl.ImmediateResistance == 0 {
			kl.ImmediateResistance = resistance[0]
		}
		if kl.MajorResistance == 0 {
			kl.MajorResistance = resistance[len(resistance)-1]
		}
	}
	return kl
}

func levelOrZero(v float64) float64 {
	if !utils.IsFinite(v) || v <= 0 {
		return 0
	}
	return utils.RoundPrice(v)
}
