package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Background(lipgloss.Color("#1F2937")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(80)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Width(22)

	bullishStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	bearishStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	neutralStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))
)

func RenderBanner() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("CortexFX v"+Version),
		infoStyle.Italic(true).Render("AI-Powered Forex Signal Analysis"),
	)
}

func trendStyle(trend string) lipgloss.Style {
	switch trend {
	case consts.TrendBullish:
		return bullishStyle
	case consts.TrendBearish:
		return bearishStyle
	default:
		return neutralStyle
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPrices(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatPrice(v)
	}
	return strings.Join(parts, ", ")
}

func formatOptionalPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatPrice(*v)
}

// RenderAnalysis renders an analysis result as a terminal panel.
func RenderAnalysis(res *models.AnalysisResult) string {
	rec := res.Recommendation
	header := titleStyle.Render(fmt.Sprintf("%s %s", res.Symbol, res.Timeframe)) + "  " +
		trendStyle(rec.Trend).Render(strings.ToUpper(rec.Trend))

	lines := []string{
		header,
		"",
		row("Signals", strings.ToUpper(strings.Join(rec.Signals, ", "))),
		row("Confidence", fmt.Sprintf("%d%%", rec.Confidence)),
		row("Risk score", fmt.Sprintf("%d/10", rec.RiskScore)),
		row("Position size", rec.PositionSize),
		"",
		row("Long entry", formatOptionalPrice(rec.LongEntry)),
		row("Short entry", formatOptionalPrice(rec.ShortEntry)),
		row("Stop loss", formatPrice(rec.StopLoss)),
		row("Take profit", formatPrices(rec.TakeProfit)),
		row("Support", formatPrices(rec.Support)),
		row("Resistance", formatPrices(rec.Resistance)),
		row("Immediate S/R", fmt.Sprintf("%s / %s",
			formatPrice(rec.KeyLevels.ImmediateSupport), formatPrice(rec.KeyLevels.ImmediateResistance))),
		row("Major S/R", fmt.Sprintf("%s / %s",
			formatPrice(rec.KeyLevels.MajorSupport), formatPrice(rec.KeyLevels.MajorResistance))),
		"",
		lipgloss.NewStyle().Width(74).Render(rec.Analysis),
		"",
		labelStyle.UnsetWidth().Render(fmt.Sprintf("%s | model %s | %s data | %s",
			res.Provenance, res.Model, res.DataSource, res.GeneratedAt.Format("2006-01-02 15:04:05 MST"))),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// RenderSeries renders the most recent candles and the indicator snapshot.
func RenderSeries(res *models.SeriesResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s (%s)", res.Symbol, res.Timeframe, res.DataSource)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%-20s %10s %10s %10s %10s %10s\n", "Time", "Open", "High", "Low", "Close", "Volume")
	for _, c := range res.Series.Tail(10) {
		fmt.Fprintf(&b, "%-20s %10s %10s %10s %10s %10d\n", c.Timestamp.Format("2006-01-02 15:04"),
			formatPrice(c.Open), formatPrice(c.High), formatPrice(c.Low), formatPrice(c.Close), c.Volume)
	}
	b.WriteString("\n")
	ind := res.Indicators
	if ind.Empty() {
		b.WriteString(warnStyle.Render("Not enough candles for indicators"))
	} else {
		b.WriteString(row("SMA 20", formatOptionalPrice(ind.SMA20)) + "\n")
		b.WriteString(row("SMA 50", formatOptionalPrice(ind.SMA50)) + "\n")
		b.WriteString(row("RSI 14", formatOptionalPrice(ind.RSI)) + "\n")
		b.WriteString(row("Price change", fmt.Sprintf("%s (%s%%)",
			formatOptionalPrice(ind.PriceChange), formatOptionalPrice(ind.PriceChangePercent))))
	}
	return panelStyle.Render(b.String())
}

func RenderInfo(info models.ServiceInfo) string {
	reasoning := warnStyle.Render("heuristic only (no API key)")
	if info.ReasoningConfigured {
		reasoning = successStyle.Render("enabled")
	}
	lines := []string{
		titleStyle.Render(info.Message),
		"",
		row("Symbols", strings.Join(info.SupportedSymbols, ", ")),
		row("Timeframes", strings.Join(info.SupportedTimeframes, ", ")),
		row("Provider", info.Provider),
		row("Model", info.Model),
		row("Reasoning", reasoning),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// RenderConfig shows the effective configuration with API keys masked.
func RenderConfig(cfg *config.Config, path string) string {
	lines := []string{
		titleStyle.Render("Configuration"),
		"",
		row("File", path),
		row("Provider", cfg.LLMProvider),
		row("Model", cfg.Model),
		row("Backend URL", cfg.ResolvedBackendURL()),
		row("API key", maskKey(cfg.APIKey())),
		row("Temperature", strconv.FormatFloat(float64(cfg.Temperature), 'f', -1, 32)),
		row("Max tokens", strconv.Itoa(cfg.MaxTokens)),
		row("Reasoning timeout", cfg.ReasoningTimeout.String()),
		row("Results dir", cfg.ResultsDir),
		row("Log level", cfg.LogLevel),
		row("Eino debug", fmt.Sprintf("%t (port %d)", cfg.EinoDebugEnabled, cfg.EinoDebugPort)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	default:
		return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
	}
}
