package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/service"
	"github.com/dyike/CortexFX/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", cfgPath))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "CortexFX v"+Version) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := runCLI(t, "analyze", "eurusd", "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res models.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Symbol != "EURUSD" || res.Timeframe != "1H" {
		t.Errorf("unexpected symbol/timeframe %s/%s", res.Symbol, res.Timeframe)
	}
	if res.Provenance != consts.ProvenanceHeuristic || res.DataSource != consts.DataSourceDemo {
		t.Errorf("unexpected provenance %s / %s", res.Provenance, res.DataSource)
	}
	if res.Recommendation == nil || len(res.Recommendation.Signals) == 0 {
		t.Fatalf("incomplete recommendation in %s", out)
	}
}

func TestAnalyzeCommandPanel(t *testing.T) {
	out, err := runCLI(t, "analyze", "USDJPY", "-t", "1d")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"USDJPY", "Stop loss", "heuristic"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandInvalidSymbol(t *testing.T) {
	_, err := runCLI(t, "analyze", "XXXYYY")
	if !errors.Is(err, service.ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestAnalyzeCommandWritesReport(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "reports", "eurusd.md")
	if _, err := runCLI(t, "analyze", "EURUSD", "--output", mdPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# EURUSD 1H Forex Analysis") {
		t.Errorf("unexpected report:\n%s", data)
	}

	jsonPath := filepath.Join(dir, "eurusd.json")
	if _, err := runCLI(t, "analyze", "EURUSD", "--json", "--output", jsonPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("json report not written: %v", err)
	}
	var res models.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode json report: %v", err)
	}
}

func TestAnalyzeCommandRequestFile(t *testing.T) {
	seriesOut, err := runCLI(t, "series", "AUDUSD", "--json")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	var series models.SeriesResult
	if err := json.Unmarshal([]byte(seriesOut), &series); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if series.Series.Len() != 30 {
		t.Fatalf("expected 30 candles, got %d", series.Series.Len())
	}

	req, _ := json.Marshal(map[string]any{"symbol": "AUDUSD", "timeframe": "4H", "priceData": series.Series})
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, req, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "analyze", "--request", path, "--json")
	if err != nil {
		t.Fatalf("analyze --request: %v", err)
	}
	var res models.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.DataSource != consts.DataSourceLive || res.Timeframe != "4H" {
		t.Errorf("unexpected result %s / %s", res.DataSource, res.Timeframe)
	}
}

func TestAnalyzeCommandRequiresInput(t *testing.T) {
	if _, err := runCLI(t, "analyze"); err == nil {
		t.Fatal("expected error without symbol or request")
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := runCLI(t, "info", "--json")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var info models.ServiceInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(info.SupportedSymbols) != 7 || info.ReasoningConfigured {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "set", `{"max_tokens": 900}`, "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config set: %v", err)
	}

	mgr, err := config.NewManager(config.WithConfigPath(cfgPath))
	if err != nil {
		t.Fatalf("reopen config: %v", err)
	}
	if got := mgr.Get().MaxTokens; got != 900 {
		t.Fatalf("expected persisted max tokens 900, got %d", got)
	}

	var out bytes.Buffer
	cmd = NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "show", "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out.String(), "900") || !strings.Contains(out.String(), "(not set)") {
		t.Errorf("unexpected config output:\n%s", out.String())
	}
}

func TestConfigValidateWithoutKey(t *testing.T) {
	out, err := runCLI(t, "config", "validate", "--probe")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "heuristic") {
		t.Errorf("expected heuristic warning, got %q", out)
	}
}

func TestProbeBackend(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if gotAuth != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.LLMProvider = config.ProviderOpenAI
	cfg.BackendURL = srv.URL
	cfg.OpenAIAPIKey = "sk-good"
	cfg.ReasoningTimeout = 2 * time.Second

	if err := ProbeBackend(t.Context(), cfg); err != nil {
		t.Fatalf("ProbeBackend: %v", err)
	}
	if gotPath != "/models" {
		t.Errorf("unexpected path %s", gotPath)
	}

	cfg.OpenAIAPIKey = "sk-bad"
	err := ProbeBackend(t.Context(), cfg)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestSeriesCSVThenAnalyzeCSV(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"series", "GBPUSD", "-t", "4H", "--csv", "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("series: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "results", "csv", "series", "GBPUSD", "GBPUSD_4H_*_records_*.csv"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one csv file, got %v (%v)", files, err)
	}
	if !strings.Contains(out.String(), files[0]) {
		t.Errorf("expected saved path in output:\n%s", out.String())
	}

	cmd = NewRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"analyze", "--csv", files[0], "--json", "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("analyze --csv: %v", err)
	}
	var res models.AnalysisResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if res.Symbol != "GBPUSD" || res.Timeframe != "4H" || res.DataSource != consts.DataSourceLive {
		t.Errorf("unexpected result %s/%s/%s", res.Symbol, res.Timeframe, res.DataSource)
	}

	cmd = NewRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"analyze", "gbpusd", "--latest-csv", "--json", "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("analyze --latest-csv: %v", err)
	}
	res = models.AnalysisResult{}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if res.Timeframe != "4H" || res.DataSource != consts.DataSourceLive {
		t.Errorf("expected the saved 4H series, got %s/%s", res.Timeframe, res.DataSource)
	}

	cmd = NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"analyze", "USDJPY", "--latest-csv", "--config", cfgPath})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error without a saved USDJPY series")
	}
}
