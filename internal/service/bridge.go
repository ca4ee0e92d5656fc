package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dyike/CortexFX/models"
	"github.com/dyike/CortexFX/pkg/bridge"
)

type seriesParams struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// GenerateSeriesJSON is the JSON-params entry point for series generation.
func (s *Service) GenerateSeriesJSON(ctx context.Context, paramsJson string) (any, error) {
	var p seriesParams
	if err := json.Unmarshal([]byte(paramsJson), &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	res, err := s.GenerateSeries(ctx, p.Symbol, p.Timeframe)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AnalyzeJSON is the JSON-params entry point for analysis. The payload uses the same
// keys as models.AnalysisRequest.
func (s *Service) AnalyzeJSON(ctx context.Context, paramsJson string) (any, error) {
	var req models.AnalysisRequest
	if err := json.Unmarshal([]byte(paramsJson), &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	res, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func notifyFinished(result *models.AnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	bridge.Notify(bridge.TopicAnalysisFinished, string(payload))
}
