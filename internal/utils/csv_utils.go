package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dyike/CortexFX/models"
)

var seriesHeader = []string{"Symbol", "Timeframe", "Timestamp", "Open", "High", "Low", "Close", "Volume"}

type CSVManager struct {
	basePath string
}

func NewCSVManager(basePath string) *CSVManager {
	return &CSVManager{
		basePath: basePath,
	}
}

// WriteSeriesToCSV writes series under basePath/csv/series/{symbol}/ and returns the
// file path. The file name carries the record count and write time.
func (c *CSVManager) WriteSeriesToCSV(symbol, timeframe string, series models.CandleSeries) (string, error) {
	dirPath := filepath.Join(c.basePath, "csv", "series", symbol)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_%d_records_%s.csv",
		symbol, timeframe, series.Len(), time.Now().UTC().Format("20060102_150405"))
	filePath := filepath.Join(dirPath, filename)
	if err := WriteSeriesCSV(filePath, symbol, timeframe, series); err != nil {
		return "", err
	}
	return filePath, nil
}

// WriteSeriesCSV writes series to filePath, one candle per row.
func WriteSeriesCSV(filePath, symbol, timeframe string, series models.CandleSeries) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(seriesHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, c := range series {
		row := []string{
			symbol,
			timeframe,
			c.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatInt(c.Volume, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadSeriesCSV reads a file written by WriteSeriesCSV. It returns the symbol and
// timeframe of the first row along with the candles.
func ReadSeriesCSV(filePath string) (models.CandleSeries, string, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(seriesHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, "", "", fmt.Errorf("no data in CSV file")
	}

	var (
		series    models.CandleSeries
		symbol    string
		timeframe string
	)
	for i, record := range records[1:] {
		line := i + 2
		ts, err := time.Parse(time.RFC3339, record[2])
		if err != nil {
			return nil, "", "", fmt.Errorf("line %d: invalid timestamp %q", line, record[2])
		}
		prices := make([]float64, 4)
		for j := range prices {
			prices[j], err = strconv.ParseFloat(strings.TrimSpace(record[3+j]), 64)
			if err != nil {
				return nil, "", "", fmt.Errorf("line %d: invalid %s %q", line, seriesHeader[3+j], record[3+j])
			}
		}
		volume, err := strconv.ParseInt(strings.TrimSpace(record[7]), 10, 64)
		if err != nil {
			return nil, "", "", fmt.Errorf("line %d: invalid volume %q", line, record[7])
		}
		if i == 0 {
			symbol, timeframe = record[0], record[1]
		}
		series = append(series, models.Candle{
			Timestamp: ts,
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    volume,
		})
	}
	return series, symbol, timeframe, nil
}

// FindLatestCSV returns the newest series file for symbol holding at least
// minRecords candles.
func (c *CSVManager) FindLatestCSV(symbol string, minRecords int) (string, error) {
	dirPath := filepath.Join(c.basePath, "csv", "series", symbol)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return "", fmt.Errorf("no CSV directory for symbol %s", symbol)
	}

	files, err := filepath.Glob(filepath.Join(dirPath, symbol+"_*_records_*.csv"))
	if err != nil {
		return "", fmt.Errorf("failed to search CSV files: %w", err)
	}

	var (
		bestFile   string
		latestTime time.Time
	)
	for _, file := range files {
		// SYMBOL_TIMEFRAME_COUNT_records_DATE_TIME.csv
		parts := strings.Split(filepath.Base(file), "_")
		if len(parts) < 4 {
			continue
		}
		recordCount, err := strconv.Atoi(parts[2])
		if err != nil || recordCount < minRecords {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if bestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			bestFile = file
		}
	}

	if bestFile == "" {
		return "", fmt.Errorf("no suitable CSV file found for symbol %s with at least %d records", symbol, minRecords)
	}
	return bestFile, nil
}
