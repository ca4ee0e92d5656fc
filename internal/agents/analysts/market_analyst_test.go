package analysts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/CortexFX/models"
)

type fakeChatModel struct {
	reply string
	err   error
	input []*schema.Message
	opts  *model.Options
	calls int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	f.input = input
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func testSeries(n int) models.CandleSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(models.CandleSeries, n)
	for i := range series {
		price := 1.08 + float64(i)*0.0001
		series[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price + 0.0005,
			Low:       price - 0.0005,
			Close:     price + 0.0002,
			Volume:    1000,
		}
	}
	return series
}

func TestMarketAnalystReason(t *testing.T) {
	cm := &fakeChatModel{reply: validReply}
	var started bool
	handler := callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
			started = true
			return ctx
		}).Build()

	analyst, err := NewMarketAnalyst(context.Background(), cm,
		WithModelName("test/model"),
		WithCallbackHandler(handler))
	if err != nil {
		t.Fatalf("NewMarketAnalyst: %v", err)
	}
	if !analyst.Configured() || analyst.Model() != "test/model" {
		t.Fatalf("unexpected analyst state configured=%v model=%s", analyst.Configured(), analyst.Model())
	}

	ind := &models.IndicatorSnapshot{RSI: models.Float(61.2), SMA20: models.Float(1.081)}
	rec, err := analyst.Reason(context.Background(), "EURUSD", "1H", testSeries(30), ind)
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if rec.Trend != "bullish" {
		t.Errorf("unexpected trend %s", rec.Trend)
	}
	if cm.calls != 1 {
		t.Errorf("expected exactly one model call, got %d", cm.calls)
	}
	if cm.opts.Temperature == nil || *cm.opts.Temperature != DefaultTemperature {
		t.Errorf("temperature not passed: %v", cm.opts.Temperature)
	}
	if cm.opts.MaxTokens == nil || *cm.opts.MaxTokens != DefaultMaxTokens {
		t.Errorf("max tokens not passed: %v", cm.opts.MaxTokens)
	}
	if !started {
		t.Error("callback handler was not invoked")
	}

	if len(cm.input) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(cm.input))
	}
	user := cm.input[1].Content
	for _, want := range []string{"EURUSD", "RSI: 61.2", "SMA 50: N/A", "Last 10 candles", "10. Open:"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(user, "11. Open:") {
		t.Error("prompt quotes more than 10 candles")
	}
}

func TestMarketAnalystFailures(t *testing.T) {
	cases := map[string]*fakeChatModel{
		"call error":  {err: errors.New("boom")},
		"unparseable": {reply: "I am not sure."},
	}
	for name, cm := range cases {
		analyst, err := NewMarketAnalyst(context.Background(), cm)
		if err != nil {
			t.Fatalf("%s: NewMarketAnalyst: %v", name, err)
		}
		_, err = analyst.Reason(context.Background(), "EURUSD", "1H", testSeries(30), nil)
		if !errors.Is(err, ErrReasoningFailure) {
			t.Errorf("%s: expected ErrReasoningFailure, got %v", name, err)
		}
	}
}

func TestMarketAnalystUnconfigured(t *testing.T) {
	analyst, err := NewMarketAnalyst(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMarketAnalyst: %v", err)
	}
	if analyst.Configured() {
		t.Fatal("analyst without a model must not be configured")
	}
	_, err = analyst.Reason(context.Background(), "EURUSD", "1H", testSeries(5), nil)
	if !errors.Is(err, ErrReasoningUnavailable) || !IsUnavailable(err) {
		t.Fatalf("expected ErrReasoningUnavailable, got %v", err)
	}
}

func TestPromptVariables(t *testing.T) {
	vars := PromptVariables("GBPUSD", "", testSeries(3), &models.IndicatorSnapshot{PriceChange: models.Float(0.0002)})
	if vars["timeframe"] != "1H" {
		t.Errorf("expected default timeframe, got %v", vars["timeframe"])
	}
	if vars["price_change"] != "0.0002" || vars["rsi"] != "N/A" {
		t.Errorf("unexpected indicator formatting %v / %v", vars["price_change"], vars["rsi"])
	}
	candles := vars["candles"].([]string)
	if len(candles) != 3 || !strings.HasPrefix(candles[0], "1. Open: 1.08, High: ") {
		t.Errorf("unexpected candles %v", candles)
	}
}
