package models

import "time"

// AnalysisRequest is the input of one analysis run. Series and Indicators are optional
// for series generation and required (series) for analysis.
type AnalysisRequest struct {
	Symbol     string             `json:"symbol"`
	Timeframe  string             `json:"timeframe"`
	Series     CandleSeries       `json:"priceData,omitempty"`
	Indicators *IndicatorSnapshot `json:"indicators,omitempty"`
}

// SeriesResult is returned by series generation.
type SeriesResult struct {
	Symbol      string             `json:"symbol"`
	Timeframe   string             `json:"timeframe"`
	Series      CandleSeries       `json:"data"`
	Indicators  *IndicatorSnapshot `json:"indicators"`
	GeneratedAt time.Time          `json:"timestamp"`
	DataSource  string             `json:"dataSource"`
}

// AnalysisResult wraps a recommendation with its provenance metadata.
type AnalysisResult struct {
	RequestID      string          `json:"requestId"`
	Symbol         string          `json:"symbol"`
	Timeframe      string          `json:"timeframe"`
	Recommendation *Recommendation `json:"analysis"`
	GeneratedAt    time.Time       `json:"timestamp"`
	Provenance     string          `json:"provenance"`
	Model          string          `json:"aiModel"`
	DataSource     string          `json:"dataSource"`
}

// ServiceInfo describes what the analysis service supports.
type ServiceInfo struct {
	Message             string   `json:"message"`
	SupportedSymbols    []string `json:"supportedSymbols"`
	SupportedTimeframes []string `json:"supportedTimeframes"`
	Model               string   `json:"model"`
	Provider            string   `json:"provider"`
	ReasoningConfigured bool     `json:"reasoningConfigured"`
}
