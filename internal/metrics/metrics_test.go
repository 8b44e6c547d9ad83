package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Independent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ConversionRequestsTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ConversionRequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ConversionRequestsTotal))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveProvider("exchangerate-api", "success", 0.2)
	m.CacheHitsTotal.Add(2)

	path := filepath.Join(t.TempDir(), "fxconvert.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `provider_requests_total{outcome="success",provider="exchangerate-api"} 1`)
	assert.Contains(t, string(data), "rate_cache_hits_total 2")
}
