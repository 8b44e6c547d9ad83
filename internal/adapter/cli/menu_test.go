package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fxconvert/internal/adapter/audit"
	"fxconvert/internal/adapter/cache"
	"fxconvert/internal/adapter/chart"
	"fxconvert/internal/adapter/export"
	"fxconvert/internal/adapter/repository"
	"fxconvert/internal/metrics"
	"fxconvert/internal/service"
	"fxconvert/internal/session"
	"fxconvert/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	menu     *Menu
	out      *bytes.Buffer
	results  *session.Results
	metrics  *metrics.Metrics
	logPath  string
	csvPath  string
	requests *int32
}

func newFixture(t *testing.T, input string, pairBody string) *fixture {
	t.Helper()

	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if strings.HasPrefix(r.URL.Path, "/timeseries") {
			_, _ = w.Write([]byte(`{"success":true,"rates":{"2024-04-30":{"EUR":0.935},"2024-04-29":{"EUR":0.933}}}`))
			return
		}
		_, _ = w.Write([]byte(pairBody))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	log := logger.NewLogger("error")
	m := metrics.NewMetrics()
	results := session.NewResults()

	exchange := service.NewExchangeService(
		repository.NewExchangeAPI(srv.URL, "key", time.Second, m, log),
		cache.NewMemoryCache(time.Hour, log),
		audit.NewFileLog(filepath.Join(dir, "conversion_log.txt")),
		m, log,
	)
	history := service.NewHistoryService(
		repository.NewTimeseriesAPI(srv.URL, "key", time.Second, m, log),
		chart.NewASCIIPlotter(),
		m, log,
	)

	out := &bytes.Buffer{}
	menu := NewMenu(strings.NewReader(input), out, exchange, history,
		export.NewCSVExporter(filepath.Join(dir, "results.csv")), results, 7, m, log)

	return &fixture{
		menu:     menu,
		out:      out,
		results:  results,
		metrics:  m,
		logPath:  filepath.Join(dir, "conversion_log.txt"),
		csvPath:  filepath.Join(dir, "results.csv"),
		requests: &requests,
	}
}

const okPair = `{"result":"success","conversion_rate":0.92}`

func TestMenu_ConvertExportQuit(t *testing.T) {
	f := newFixture(t, "1\nusd\neur\n100\n1\nUSD\nEUR\n50\n3\n4\n", okPair)

	require.NoError(t, f.menu.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "100.00 USD = 92.00 EUR")
	assert.Contains(t, out, "50.00 USD = 46.00 EUR")
	assert.Contains(t, out, "1 USD = 0.9200 EUR")
	assert.Contains(t, out, "Exported 2 result(s)")
	assert.Contains(t, out, "Goodbye!")

	assert.Equal(t, int32(1), atomic.LoadInt32(f.requests), "second conversion must hit the cache")
	assert.Equal(t, 2, f.results.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExportsTotal))

	logData, err := os.ReadFile(f.logPath)
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD to EUR: 92.00 (Rate: 0.9200)\n50.00 USD to EUR: 46.00 (Rate: 0.9200)\n", string(logData))

	csvData, err := os.ReadFile(f.csvPath)
	require.NoError(t, err)
	assert.Equal(t,
		"Amount,Base Currency,Target Currency,Converted Amount,Rate\n"+
			"100.00,USD,EUR,92.00,0.9200\n"+
			"50.00,USD,EUR,46.00,0.9200\n",
		string(csvData))
}

func TestMenu_InvalidInputsKeepLooping(t *testing.T) {
	f := newFixture(t, "9\n1\nUS\nEUR\n100\n1\nUSD\nEUR\nlots\n4\n", okPair)

	require.NoError(t, f.menu.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, `Invalid choice "9"`)
	assert.Contains(t, out, "invalid currency code")
	assert.Contains(t, out, "invalid amount")
	assert.Equal(t, int32(0), atomic.LoadInt32(f.requests))
	assert.Equal(t, 0, f.results.Len())
}

func TestMenu_ProviderErrorsAreReported(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "Invalid Key", body: `{"result":"error","error-type":"invalid-key"}`, expected: "reported an error: invalid-key"},
		{name: "Not JSON", body: `<html></html>`, expected: "not valid JSON"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "1\nUSD\nEUR\n100\n4\n", tc.body)

			require.NoError(t, f.menu.Run(context.Background()))

			assert.Contains(t, f.out.String(), tc.expected)
			assert.Contains(t, f.out.String(), "Goodbye!")
			assert.Equal(t, 0, f.results.Len())
		})
	}
}

func TestMenu_History(t *testing.T) {
	f := newFixture(t, "2\nusd\neur\n\n2\nUSD\nEUR\nx\n4\n", okPair)

	require.NoError(t, f.menu.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "USD/EUR exchange rate, 2024-04-29 .. 2024-04-30")
	assert.Contains(t, out, `invalid number of days "x"`)
}

func TestMenu_EOFEndsLoop(t *testing.T) {
	f := newFixture(t, "1\nUSD\n", okPair)

	require.NoError(t, f.menu.Run(context.Background()))
	assert.NotContains(t, f.out.String(), "Goodbye!")
}

func TestMenu_CancelledContext(t *testing.T) {
	f := newFixture(t, "4\n", okPair)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.menu.Run(ctx), context.Canceled)
}
