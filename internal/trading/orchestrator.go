// Package trading runs one analysis: indicators, one bounded reasoning attempt and
// the heuristic fallback.
package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/agents/analysts"
	"github.com/dyike/CortexFX/internal/indicators"
	"github.com/dyike/CortexFX/internal/logger"
	"github.com/dyike/CortexFX/models"
)

const DefaultTimeout = 30 * time.Second

// Reasoner is an external reasoning capability, normally *analysts.MarketAnalyst.
type Reasoner interface {
	Configured() bool
	Model() string
	Reason(ctx context.Context, symbol, timeframe string, series models.CandleSeries, ind *models.IndicatorSnapshot) (*models.Recommendation, error)
}

// Orchestrator holds only immutable collaborators and is safe for concurrent use.
type Orchestrator struct {
	reasoner Reasoner
	timeout  time.Duration
	log      *logrus.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Orchestrator)

// WithCapability injects the reasoning capability. Without one every analysis is
// heuristic.
func WithCapability(r Reasoner) Option {
	return func(o *Orchestrator) {
		o.reasoner = r
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		timeout: DefaultTimeout,
		log:     logger.Discard(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Configured reports whether an external attempt will be made.
func (o *Orchestrator) Configured() bool {
	return o.reasoner != nil && o.reasoner.Configured()
}

// Model names the external model, or the heuristic model when none is configured.
func (o *Orchestrator) Model() string {
	if o.Configured() {
		return o.reasoner.Model()
	}
	return consts.HeuristicModel
}

// Analyze always produces a complete result for a validated request. Reasoning errors,
// timeouts and caller cancellation only change the provenance to fallback.
func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalysisRequest, dataSource string) *models.AnalysisResult {
	ind := req.Indicators
	if ind == nil {
		ind = indicators.Compute(req.Series)
	}
	price := 0.0
	if last, ok := req.Series.Last(); ok {
		price = last.Close
	}

	result := &models.AnalysisResult{
		RequestID:  o.newID(),
		Symbol:     req.Symbol,
		Timeframe:  req.Timeframe,
		DataSource: dataSource,
	}
	entry := o.log.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"symbol":     req.Symbol,
		"timeframe":  req.Timeframe,
	})

	if !o.Configured() {
		result.Recommendation = analysts.Heuristic(req.Symbol, req.Timeframe, price, ind)
		result.Provenance = consts.ProvenanceHeuristic
		result.Model = consts.HeuristicModel
	} else {
		start := o.now()
		rec, err := o.attempt(ctx, req, ind)
		if err != nil {
			entry.WithError(err).WithFields(logrus.Fields{
				"elapsed":     o.now().Sub(start),
				"unavailable": analysts.IsUnavailable(err),
			}).Warn("reasoning failed, using heuristic fallback")
			result.Recommendation = analysts.Heuristic(req.Symbol, req.Timeframe, price, ind)
			result.Provenance = consts.ProvenanceFallback
			result.Model = consts.HeuristicModel
		} else {
			result.Recommendation = rec
			result.Provenance = consts.ProvenanceExternal
			result.Model = o.reasoner.Model()
		}
	}
	result.GeneratedAt = o.now().UTC()

	entry.WithFields(logrus.Fields{
		"provenance": result.Provenance,
		"model":      result.Model,
		"trend":      result.Recommendation.Trend,
	}).Info("analysis complete")
	return result
}

type outcome struct {
	rec *models.Recommendation
	err error
}

// attempt makes the single external call. The call is abandoned when the timeout
// or the caller's context fires, even if the capability ignores its context.
func (o *Orchestrator) attempt(ctx context.Context, req models.AnalysisRequest, ind *models.IndicatorSnapshot) (*models.Recommendation, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: panic: %v", analysts.ErrReasoningFailure, r)}
			}
		}()
		rec, err := o.reasoner.Reason(callCtx, req.Symbol, req.Timeframe, req.Series, ind)
		done <- outcome{rec: rec, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		if out.rec == nil {
			return nil, fmt.Errorf("%w: empty recommendation", analysts.ErrReasoningFailure)
		}
		return out.rec, nil
	case <-callCtx.Done():
		return nil, fmt.Errorf("%w: %w", analysts.ErrReasoningFailure, callCtx.Err())
	}
}
