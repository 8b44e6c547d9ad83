package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fxconvert/internal/domain/model"
	"fxconvert/internal/metrics"
	"fxconvert/pkg/logger"
)

const exchangeAPIProvider = "exchangerate-api"

// ExchangeAPI talks to the exchangerate-api.com v6 pair endpoint.
type ExchangeAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *logger.Logger
}

type pairAPIResponse struct {
	Result             string   `json:"result"`
	ErrorType          string   `json:"error-type,omitempty"`
	BaseCode           string   `json:"base_code"`
	TargetCode         string   `json:"target_code"`
	ConversionRate     *float64 `json:"conversion_rate"`
	TimeLastUpdateUnix int64    `json:"time_last_update_unix"`
}

// NewExchangeAPI builds the spot-rate adapter. A zero timeout leaves requests
// unbounded.
func NewExchangeAPI(baseURL, apiKey string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *ExchangeAPI {
	return &ExchangeAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
		log:     log,
	}
}

func (e *ExchangeAPI) FetchLatestRate(ctx context.Context, pair model.CurrencyPair) (*model.ExchangeRate, error) {
	start := time.Now()
	rate, err := e.fetchPair(ctx, pair)
	observe(e.metrics, exchangeAPIProvider, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (e *ExchangeAPI) fetchPair(ctx context.Context, pair model.CurrencyPair) (*model.ExchangeRate, error) {
	url := fmt.Sprintf("%s/%s/pair/%s/%s", e.baseURL, e.apiKey, pair.BaseCurrency, pair.TargetCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", redactURL(err, e.apiKey))}
	}

	e.log.Debug("Requesting pair rate", "pair", pair.String())
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindTransport, Err: redactURL(err, e.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var apiResp pairAPIResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	// Errors such as invalid-key come back with a 4xx status and a JSON body;
	// keep the provider's code when there is one.
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && apiResp.ErrorType != "" {
			return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindApplication, StatusCode: resp.StatusCode, Code: apiResp.ErrorType}
		}
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	if decodeErr != nil {
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindMalformedBody, StatusCode: resp.StatusCode, Err: decodeErr}
	}

	if apiResp.Result != "success" {
		code := apiResp.ErrorType
		if code == "" {
			code = "unknown-error"
		}
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindApplication, StatusCode: resp.StatusCode, Code: code}
	}

	if apiResp.ConversionRate == nil || *apiResp.ConversionRate <= 0 {
		return nil, &FetchError{Provider: exchangeAPIProvider, Kind: KindMalformedBody, StatusCode: resp.StatusCode, Err: errors.New("missing or non-positive conversion_rate")}
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if apiResp.TimeLastUpdateUnix > 0 {
		date = time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC().Truncate(24 * time.Hour)
	}

	return &model.ExchangeRate{
		BaseCurrency:   pair.BaseCurrency,
		TargetCurrency: pair.TargetCurrency,
		Rate:           *apiResp.ConversionRate,
		Date:           date,
		LastUpdated:    time.Now(),
	}, nil
}

func observe(m *metrics.Metrics, provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	m.ObserveProvider(provider, outcome, elapsed.Seconds())
}
