package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/dyike/CortexFX/internal/agents/analysts"
	"github.com/dyike/CortexFX/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		RequestID:      "req-1",
		Symbol:         "EURUSD",
		Timeframe:      "1H",
		Recommendation: analysts.Heuristic("EURUSD", "1H", 1.1, &models.IndicatorSnapshot{RSI: models.Float(65)}),
		GeneratedAt:    time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
		Provenance:     "heuristic",
		Model:          "heuristic-v1",
		DataSource:     "demo",
	}
}

func TestMarkdownReport(t *testing.T) {
	md := MarkdownReport(sampleResult())
	for _, want := range []string{
		"# EURUSD 1H Forex Analysis",
		"- Request ID: `req-1`",
		"| Trend | bullish |",
		"| Stop loss | 1.0967 |",
		"| Take profit | 1.111, 1.1165 |",
		"| Short entry | - |",
		"## Analysis",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReportFileName(t *testing.T) {
	if got := ReportFileName(sampleResult(), ".md"); got != "EURUSD_1H_20250501T093000Z.md" {
		t.Fatalf("unexpected file name %s", got)
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":                 "(not set)",
		"short":            "*****",
		"sk-or-1234567890": "sk-o********7890",
	}
	for in, want := range cases {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
