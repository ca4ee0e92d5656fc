package dataflows

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dyike/CortexFX/consts"
)

var (
	ErrMissingSymbol    = errors.New("symbol is required")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// ValidateSymbol checks symbol against the supported pairs. The error message lists
// every supported symbol.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return ErrMissingSymbol
	}
	if !slices.Contains(consts.Symbols, symbol) {
		return fmt.Errorf("%w %q. Supported symbols: %s", ErrInvalidSymbol, symbol, strings.Join(consts.Symbols, ", "))
	}
	return nil
}

func ValidateAndNormalizeSymbol(symbol string) (string, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return "", err
	}
	return NormalizeSymbol(symbol), nil
}

// NormalizeTimeframe upper-cases timeframe and substitutes the default when empty.
func NormalizeTimeframe(timeframe string) string {
	timeframe = strings.TrimSpace(strings.ToUpper(timeframe))
	if timeframe == "" {
		return consts.DefaultTimeframe
	}
	return timeframe
}

func ValidateTimeframe(timeframe string) error {
	timeframe = NormalizeTimeframe(timeframe)
	if !slices.Contains(consts.Timeframes, timeframe) {
		return fmt.Errorf("%w %q. Supported: %s", ErrInvalidTimeframe, timeframe, strings.Join(consts.Timeframes, ", "))
	}
	return nil
}

func ValidateAndNormalizeTimeframe(timeframe string) (string, error) {
	if err := ValidateTimeframe(timeframe); err != nil {
		return "", err
	}
	return NormalizeTimeframe(timeframe), nil
}
