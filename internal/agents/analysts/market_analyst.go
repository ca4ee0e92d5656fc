package analysts

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/internal/logger"
	"github.com/dyike/CortexFX/models"
)

const (
	DefaultTemperature float32 = 0.3
	DefaultMaxTokens           = 1500
)

// MarketAnalyst asks a chat model for a forex recommendation through an eino chain:
// chat template, chat model, then strict parsing of the reply.
type MarketAnalyst struct {
	runnable    compose.Runnable[map[string]any, *models.Recommendation]
	modelName   string
	temperature float32
	maxTokens   int
	handlers    []callbacks.Handler
	log         *logrus.Logger
}

type Option func(*MarketAnalyst)

func WithModelName(name string) Option {
	return func(a *MarketAnalyst) {
		a.modelName = name
	}
}

func WithTemperature(t float32) Option {
	return func(a *MarketAnalyst) {
		a.temperature = t
	}
}

func WithMaxTokens(n int) Option {
	return func(a *MarketAnalyst) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithCallbackHandler attaches an eino callback handler to every invocation.
func WithCallbackHandler(h callbacks.Handler) Option {
	return func(a *MarketAnalyst) {
		if h != nil {
			a.handlers = append(a.handlers, h)
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(a *MarketAnalyst) {
		if l != nil {
			a.log = l
		}
	}
}

// NewMarketAnalyst compiles the analysis chain around cm. A nil cm yields an analyst
// that is not configured and reports ErrReasoningUnavailable on every call.
func NewMarketAnalyst(ctx context.Context, cm model.BaseChatModel, opts ...Option) (*MarketAnalyst, error) {
	a := &MarketAnalyst{
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if cm == nil {
		return a, nil
	}

	tpl, err := newChatTemplate()
	if err != nil {
		return nil, fmt.Errorf("load analyst prompt: %w", err)
	}

	chain := compose.NewChain[map[string]any, *models.Recommendation]()
	chain.
		AppendChatTemplate(tpl, compose.WithNodeName("forex_prompt")).
		AppendChatModel(cm, compose.WithNodeName("forex_model")).
		AppendLambda(compose.InvokableLambda(parseReply), compose.WithNodeName("forex_parse"))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile analyst chain: %w", err)
	}
	a.runnable = runnable
	return a, nil
}

// Configured reports whether a chat model backs this analyst.
func (a *MarketAnalyst) Configured() bool {
	return a != nil && a.runnable != nil
}

func (a *MarketAnalyst) Model() string {
	if a == nil {
		return ""
	}
	return a.modelName
}

// Reason performs exactly one model call. Any failure is reported as
// ErrReasoningFailure wrapping the cause.
func (a *MarketAnalyst) Reason(ctx context.Context, symbol, timeframe string, series models.CandleSeries, ind *models.IndicatorSnapshot) (*models.Recommendation, error) {
	if !a.Configured() {
		return nil, ErrReasoningUnavailable
	}

	opts := []compose.Option{
		compose.WithChatModelOption(
			model.WithTemperature(a.temperature),
			model.WithMaxTokens(a.maxTokens),
		),
	}
	if len(a.handlers) > 0 {
		opts = append(opts, compose.WithCallbacks(a.handlers...))
	}

	rec, err := a.runnable.Invoke(ctx, PromptVariables(symbol, timeframe, series, ind), opts...)
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"symbol":    symbol,
			"timeframe": timeframe,
			"model":     a.modelName,
		}).WithError(err).Warn("reasoning call failed")
		return nil, fmt.Errorf("%w: %w", ErrReasoningFailure, err)
	}
	return rec, nil
}

func parseReply(_ context.Context, msg *schema.Message) (*models.Recommendation, error) {
	if msg == nil || msg.Content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnparseable)
	}
	res := ParseRecommendation(msg.Content)
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s", ErrUnparseable, res.Reason)
	}
	return res.Recommendation, nil
}

// IsUnavailable reports whether err means reasoning was never attempted.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrReasoningUnavailable)
}
