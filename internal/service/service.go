// Package service is the external surface of the analysis pipeline: series
// generation, analysis and service information.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/agents"
	"github.com/dyike/CortexFX/internal/agents/analysts"
	"github.com/dyike/CortexFX/internal/dataflows"
	"github.com/dyike/CortexFX/internal/graph"
	"github.com/dyike/CortexFX/internal/indicators"
	"github.com/dyike/CortexFX/internal/logger"
	"github.com/dyike/CortexFX/internal/trading"
	"github.com/dyike/CortexFX/models"
)

var (
	ErrMissingSymbol    = dataflows.ErrMissingSymbol
	ErrInvalidSymbol    = dataflows.ErrInvalidSymbol
	ErrInvalidTimeframe = dataflows.ErrInvalidTimeframe
	ErrMissingInput     = errors.New("symbol and price data are required")
	ErrInvalidSeries    = errors.New("invalid price data")
)

type Service struct {
	orchestrator *trading.Orchestrator
	source       dataflows.SeriesSource
	provider     string
	model        string
	log          *logrus.Logger
}

type Option func(*Service)

func WithOrchestrator(o *trading.Orchestrator) Option {
	return func(s *Service) {
		if o != nil {
			s.orchestrator = o
		}
	}
}

func WithSource(src dataflows.SeriesSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithModelInfo sets the provider and model reported by Info.
func WithModelInfo(provider, modelName string) Option {
	return func(s *Service) {
		s.provider = provider
		s.model = modelName
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		source: dataflows.NewDemoGenerator(),
		model:  consts.HeuristicModel,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orchestrator == nil {
		s.orchestrator = trading.NewOrchestrator(trading.WithLogger(s.log))
	}
	return s
}

// NewFromConfig wires the chat model, analyst and orchestrator described by cfg.
// Without a usable API key the service runs on the heuristic alone.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}

	var cm model.BaseChatModel
	if cfg.ReasoningConfigured() {
		var err error
		cm, err = agents.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init chat model: %w", err)
		}
	} else {
		log.WithField("provider", cfg.LLMProvider).Info("no API key configured, using heuristic analysis")
	}

	analyst, err := analysts.NewMarketAnalyst(ctx, cm,
		analysts.WithModelName(cfg.Model),
		analysts.WithTemperature(cfg.Temperature),
		analysts.WithMaxTokens(cfg.MaxTokens),
		analysts.WithLogger(log),
		analysts.WithCallbackHandler(graph.NewLoggerCallback(log)),
	)
	if err != nil {
		return nil, fmt.Errorf("init market analyst: %w", err)
	}

	orchestrator := trading.NewOrchestrator(
		trading.WithCapability(analyst),
		trading.WithTimeout(cfg.ReasoningTimeout),
		trading.WithLogger(log),
	)
	return New(
		WithOrchestrator(orchestrator),
		WithModelInfo(cfg.LLMProvider, cfg.Model),
		WithLogger(log),
	), nil
}

// GenerateSeries returns a demo series with its indicators.
func (s *Service) GenerateSeries(ctx context.Context, symbol, timeframe string) (*models.SeriesResult, error) {
	symbol, err := dataflows.ValidateAndNormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	timeframe, err = dataflows.ValidateAndNormalizeTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	series, err := s.source.Fetch(ctx, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, timeframe, err)
	}
	result := &models.SeriesResult{
		Symbol:     symbol,
		Timeframe:  timeframe,
		Series:     series,
		Indicators: indicators.Compute(series),
		DataSource: s.source.DataSource(),
	}
	// the newest candle marks the generation time
	if last, ok := series.Last(); ok {
		result.GeneratedAt = last.Timestamp
	}
	return result, nil
}

// Analyze analyzes a caller supplied series. Missing indicators are computed.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if dataflows.NormalizeSymbol(req.Symbol) == "" || req.Series.Len() == 0 {
		return nil, ErrMissingInput
	}
	symbol, err := dataflows.ValidateAndNormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}
	timeframe, err := dataflows.ValidateAndNormalizeTimeframe(req.Timeframe)
	if err != nil {
		return nil, err
	}
	if err := req.Series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeries, err)
	}

	req.Symbol = symbol
	req.Timeframe = timeframe
	result := s.orchestrator.Analyze(ctx, req, consts.DataSourceLive)
	notifyFinished(result)
	return result, nil
}

// AnalyzeSymbol generates a demo series for symbol and analyzes it.
func (s *Service) AnalyzeSymbol(ctx context.Context, symbol, timeframe string) (*models.AnalysisResult, error) {
	series, err := s.GenerateSeries(ctx, symbol, timeframe)
	if err != nil {
		return nil, err
	}
	req := models.AnalysisRequest{
		Symbol:     series.Symbol,
		Timeframe:  series.Timeframe,
		Series:     series.Series,
		Indicators: series.Indicators,
	}
	result := s.orchestrator.Analyze(ctx, req, series.DataSource)
	notifyFinished(result)
	return result, nil
}

func (s *Service) Info() models.ServiceInfo {
	return models.ServiceInfo{
		Message:             "Forex AI Analysis API",
		SupportedSymbols:    append([]string(nil), consts.Symbols...),
		SupportedTimeframes: append([]string(nil), consts.Timeframes...),
		Model:               s.model,
		Provider:            s.provider,
		ReasoningConfigured: s.orchestrator.Configured(),
	}
}
