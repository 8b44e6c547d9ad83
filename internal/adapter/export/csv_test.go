package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fxconvert/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVExporter_RoundTrip(t *testing.T) {
	results := []model.ConversionResult{
		{FromCurrency: "USD", ToCurrency: "EUR", FromAmount: decimal.NewFromInt(100), ToAmount: decimal.NewFromInt(92), Rate: 0.92},
		{FromCurrency: "EUR", ToCurrency: "JPY", FromAmount: decimal.RequireFromString("12.345"), ToAmount: decimal.RequireFromString("2012.7288"), Rate: 163.04},
		{FromCurrency: "GBP", ToCurrency: "USD", FromAmount: decimal.NewFromInt(-5), ToAmount: decimal.RequireFromString("-6.35"), Rate: 1.27},
	}
	path := filepath.Join(t.TempDir(), "results.csv")
	exporter := NewCSVExporter(path)

	require.NoError(t, exporter.Export(results))

	rows := readRows(t, path)
	require.Len(t, rows, len(results)+1)
	assert.Equal(t, []string{"Amount", "Base Currency", "Target Currency", "Converted Amount", "Rate"}, rows[0])
	assert.Equal(t, []string{"100.00", "USD", "EUR", "92.00", "0.9200"}, rows[1])
	assert.Equal(t, []string{"12.35", "EUR", "JPY", "2012.73", "163.0400"}, rows[2])
	assert.Equal(t, []string{"-5.00", "GBP", "USD", "-6.35", "1.2700"}, rows[3])
}

func TestCSVExporter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	exporter := NewCSVExporter(path)

	require.NoError(t, exporter.Export([]model.ConversionResult{
		{FromCurrency: "USD", ToCurrency: "EUR", FromAmount: decimal.NewFromInt(1), ToAmount: decimal.NewFromInt(1), Rate: 1},
		{FromCurrency: "USD", ToCurrency: "EUR", FromAmount: decimal.NewFromInt(2), ToAmount: decimal.NewFromInt(2), Rate: 1},
	}))
	require.NoError(t, exporter.Export(nil))

	rows := readRows(t, path)
	assert.Len(t, rows, 1)
}

func TestCSVExporter_CreateFailure(t *testing.T) {
	exporter := NewCSVExporter(filepath.Join(t.TempDir(), "missing", "results.csv"))
	assert.Error(t, exporter.Export(nil))
}
