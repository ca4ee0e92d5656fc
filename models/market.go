package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Candle is one OHLCV bar.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Validate checks the OHLC ordering and sign invariants of a single bar.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("non-positive or non-finite price %v", v)
		}
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("low %v above open/close", c.Low)
	}
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("high %v below open/close", c.High)
	}
	if c.Volume < 0 {
		return fmt.Errorf("negative volume %d", c.Volume)
	}
	return nil
}

// CandleSeries is ordered oldest first.
type CandleSeries []Candle

func (s CandleSeries) Len() int {
	return len(s)
}

func (s CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}

// Last returns the most recent candle. ok is false for an empty series.
func (s CandleSeries) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Tail returns at most n of the most recent candles.
func (s CandleSeries) Tail(n int) CandleSeries {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return CandleSeries{}
	}
	return s[len(s)-n:]
}

// Validate checks every candle and the strict timestamp ordering.
func (s CandleSeries) Validate() error {
	if len(s) == 0 {
		return errors.New("series is empty")
	}
	for i, c := range s {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
		if i > 0 && !c.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("candle %d: timestamp %s not after %s", i,
				c.Timestamp.Format(time.RFC3339), s[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// IndicatorSnapshot holds the derived indicators of a series. Nil fields are absent.
type IndicatorSnapshot struct {
	SMA20              *float64 `json:"sma20"`
	SMA50              *float64 `json:"sma50"`
	RSI                *float64 `json:"rsi"`
	CurrentPrice       *float64 `json:"currentPrice"`
	PriceChange        *float64 `json:"priceChange"`
	PriceChangePercent *float64 `json:"priceChangePercent"`
}

// Empty reports whether no indicator could be computed.
func (s *IndicatorSnapshot) Empty() bool {
	return s == nil || (s.SMA20 == nil && s.SMA50 == nil && s.RSI == nil &&
		s.CurrentPrice == nil && s.PriceChange == nil && s.PriceChangePercent == nil)
}

// Float returns a pointer to v, for building snapshots.
func Float(v float64) *float64 {
	return &v
}
