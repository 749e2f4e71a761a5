package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTimingResult() *schema.ScanResult {
	return &schema.ScanResult{
		Timings: []schema.ReleaseTiming{
			{
				Version:      "0.19.0",
				FirstRCDate:  time.Date(2023, 2, 27, 0, 0, 0, 0, time.UTC),
				ReleaseDate:  time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC),
				BusinessDays: 5,
				CommitCount:  12,
			},
			{
				Version:      "0.20.0",
				FirstRCDate:  time.Date(2023, 3, 27, 0, 0, 0, 0, time.UTC),
				ReleaseDate:  time.Date(2023, 4, 24, 0, 0, 0, 0, time.UTC),
				BusinessDays: 20,
				CommitCount:  40,
			},
		},
		PearsonR:  1.0,
		PearsonOK: true,
	}
}

func TestWriteTimingTable(t *testing.T) {
	cfg := &contract.Config{
		Output:       schema.TextOut,
		CacheBackend: schema.NoneBackend,
		Width:        120,
	}

	var buf bytes.Buffer
	err := writeTimingTable(&buf, sampleTimingResult(), cfg, 80*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "0.19.0")
	assert.Contains(t, output, "2023-02-27")
	assert.Contains(t, output, contract.FastValue)
	assert.Contains(t, output, contract.SlowValue)
	assert.Contains(t, output, "r=1.000")
	assert.Contains(t, output, "Scan completed in 80ms")
}

func TestWriteTimingTableDegenerateCorrelation(t *testing.T) {
	result := sampleTimingResult()
	result.Timings = result.Timings[:1]
	result.PearsonR = 0
	result.PearsonOK = false

	cfg := &contract.Config{Output: schema.TextOut, CacheBackend: schema.NoneBackend, Width: 120}

	var buf bytes.Buffer
	err := writeTimingTable(&buf, result, cfg, time.Millisecond)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "not enough data")
}

func TestWriteJSONResultsForTimings(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForTimings(&buf, sampleTimingResult())
	require.NoError(t, err)

	var result map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)

	timings, ok := result["timings"].([]any)
	require.True(t, ok)
	require.Len(t, timings, 2)

	first, ok := timings[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, "0.19.0", first["version"])
	assert.Equal(t, "Fast", first["label"])
	assert.Equal(t, float64(1), result["pearson_r"])
	assert.Equal(t, true, result["pearson_ok"])
}

func TestWriteCSVResultsForTimings(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForTimings(w, sampleTimingResult().Timings)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "first_rc_date")
	assert.Contains(t, lines[1], "0.19.0")
	assert.Contains(t, lines[1], "Fast")
	assert.Contains(t, lines[2], "Slow")
}

func TestPrintTimingsParquetRejected(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := PrintTimings(sampleTimingResult(), cfg, time.Millisecond)
	assert.Error(t, err)
}
