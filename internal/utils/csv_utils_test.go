package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dyike/CortexFX/models"
)

func sampleSeries(n int) models.CandleSeries {
	start := time.Date(2025, 2, 3, 4, 0, 0, 0, time.UTC)
	out := make(models.CandleSeries, n)
	for i := range out {
		out[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      1.0851,
			High:      1.08734,
			Low:       1.08321,
			Close:     1.08612,
			Volume:    int64(600000 + i),
		}
	}
	return out
}

func TestSeriesCSVRoundTrip(t *testing.T) {
	mgr := NewCSVManager(t.TempDir())
	series := sampleSeries(5)

	path, err := mgr.WriteSeriesToCSV("EURUSD", "1H", series)
	if err != nil {
		t.Fatalf("WriteSeriesToCSV: %v", err)
	}
	got, symbol, timeframe, err := ReadSeriesCSV(path)
	if err != nil {
		t.Fatalf("ReadSeriesCSV: %v", err)
	}
	if symbol != "EURUSD" || timeframe != "1H" {
		t.Errorf("unexpected symbol/timeframe %s/%s", symbol, timeframe)
	}
	if !reflect.DeepEqual(got, series) {
		t.Errorf("series changed through CSV:\n got %+v\nwant %+v", got, series)
	}

	latest, err := mgr.FindLatestCSV("EURUSD", 5)
	if err != nil || latest != path {
		t.Errorf("FindLatestCSV = %s, %v; want %s", latest, err, path)
	}
	if _, err := mgr.FindLatestCSV("EURUSD", 6); err == nil {
		t.Error("expected no file with 6 records")
	}
}

func TestReadSeriesCSVRejectsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "Symbol,Timeframe,Timestamp,Open,High,Low,Close,Volume\n" +
		"EURUSD,1H,2025-02-03T04:00:00Z,1.08,abc,1.07,1.08,100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := ReadSeriesCSV(path); err == nil {
		t.Fatal("expected parse error")
	}
}
