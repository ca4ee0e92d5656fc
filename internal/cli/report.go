package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dyike/CortexFX/models"
	"github.com/dyike/CortexFX/pkg/utils"
)

// ReportFileName names a report after its symbol, timeframe and generation time.
func ReportFileName(res *models.AnalysisResult, ext string) string {
	return fmt.Sprintf("%s_%s_%s%s", res.Symbol, res.Timeframe, res.GeneratedAt.UTC().Format("20060102T150405Z"), ext)
}

// SaveReport writes res to path as JSON when path ends in .json and as markdown
// otherwise. It returns the written path.
func SaveReport(res *models.AnalysisResult, path string) (string, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	var content string
	if strings.EqualFold(filepath.Ext(name), ".json") {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode report: %w", err)
		}
		content = string(data) + "\n"
	} else {
		content = MarkdownReport(res)
	}
	if err := utils.WriteMarkdown(dir, name, content); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// MarkdownReport renders res as a markdown document.
func MarkdownReport(res *models.AnalysisResult) string {
	rec := res.Recommendation
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s Forex Analysis\n\n", res.Symbol, res.Timeframe)
	fmt.Fprintf(&b, "- Request ID: `%s`\n", res.RequestID)
	fmt.Fprintf(&b, "- Generated: %s\n", res.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Provenance: %s\n", res.Provenance)
	fmt.Fprintf(&b, "- Model: %s\n", res.Model)
	fmt.Fprintf(&b, "- Data source: %s\n\n", res.DataSource)

	b.WriteString("## Recommendation\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Trend | %s |\n", rec.Trend)
	fmt.Fprintf(&b, "| Signals | %s |\n", strings.Join(rec.Signals, ", "))
	fmt.Fprintf(&b, "| Confidence | %d |\n", rec.Confidence)
	fmt.Fprintf(&b, "| Risk score | %d |\n", rec.RiskScore)
	fmt.Fprintf(&b, "| Position size | %s |\n", rec.PositionSize)
	fmt.Fprintf(&b, "| Long entry | %s |\n", formatOptionalPrice(rec.LongEntry))
	fmt.Fprintf(&b, "| Short entry | %s |\n", formatOptionalPrice(rec.ShortEntry))
	fmt.Fprintf(&b, "| Stop loss | %s |\n", formatPrice(rec.StopLoss))
	fmt.Fprintf(&b, "| Take profit | %s |\n\n", formatPrices(rec.TakeProfit))

	b.WriteString("## Levels\n\n")
	fmt.Fprintf(&b, "- Support: %s\n", formatPrices(rec.Support))
	fmt.Fprintf(&b, "- Resistance: %s\n", formatPrices(rec.Resistance))
	fmt.Fprintf(&b, "- Immediate support / resistance: %s / %s\n",
		formatPrice(rec.KeyLevels.ImmediateSupport), formatPrice(rec.KeyLevels.ImmediateResistance))
	fmt.Fprintf(&b, "- Major support / resistance: %s / %s\n\n",
		formatPrice(rec.KeyLevels.MajorSupport), formatPrice(rec.KeyLevels.MajorResistance))

	b.WriteString("## Analysis\n\n")
	b.WriteString(rec.Analysis)
	b.WriteString("\n")
	return b.String()
}
