package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fxconvert/internal/domain/model"
	"fxconvert/internal/metrics"
	"fxconvert/pkg/logger"
	"fxconvert/pkg/utils"

	"github.com/tidwall/gjson"
)

const timeseriesProvider = "exchangerate-host"

// TimeseriesAPI talks to an exchangerate.host style /timeseries endpoint,
// which authenticates with an access_key query parameter.
type TimeseriesAPI struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *logger.Logger
}

func NewTimeseriesAPI(baseURL, accessKey string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *TimeseriesAPI {
	return &TimeseriesAPI{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
		log:     log,
	}
}

func (t *TimeseriesAPI) FetchHistoricalRates(ctx context.Context, request model.HistoricalRateRequest) (*model.HistoricalRates, error) {
	start := time.Now()
	rates, err := t.fetchSeries(ctx, request)
	observe(t.metrics, timeseriesProvider, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (t *TimeseriesAPI) fetchSeries(ctx context.Context, request model.HistoricalRateRequest) (*model.HistoricalRates, error) {
	query := url.Values{}
	query.Set("access_key", t.accessKey)
	query.Set("start_date", utils.FormatDate(request.StartDate))
	query.Set("end_date", utils.FormatDate(request.EndDate))
	query.Set("base", request.BaseCurrency.String())
	query.Set("symbols", request.TargetCurrency.String())

	endpoint := fmt.Sprintf("%s/timeseries?%s", t.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", redactURL(err, t.accessKey))}
	}

	t.log.Debug("Requesting rate series",
		"base", request.BaseCurrency,
		"target", request.TargetCurrency,
		"start_date", query.Get("start_date"),
		"end_date", query.Get("end_date"),
	)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindTransport, Err: redactURL(err, t.accessKey)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindMalformedBody, StatusCode: resp.StatusCode, Err: errors.New("response is not valid JSON")}
	}

	success := gjson.GetBytes(body, "success")
	if !success.Exists() {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindMalformedBody, StatusCode: resp.StatusCode, Err: errors.New("missing success field")}
	}
	if !success.Bool() {
		return nil, &FetchError{Provider: timeseriesProvider, Kind: KindApplication, StatusCode: resp.StatusCode, Code: errorCode(body)}
	}

	result := &model.HistoricalRates{
		BaseCurrency:   request.BaseCurrency,
		TargetCurrency: request.TargetCurrency,
		Points:         make([]model.RatePoint, 0),
	}

	target := request.TargetCurrency.String()
	gjson.GetBytes(body, "rates").ForEach(func(date, day gjson.Result) bool {
		if _, err := utils.ParseDate(date.String()); err != nil {
			t.log.Warn("Skipping rate with unparsable date", "date", date.String())
			return true
		}
		rate := day.Get(target)
		if !rate.Exists() {
			return true
		}
		if rate.Type != gjson.Number || rate.Float() <= 0 {
			t.log.Warn("Skipping non-numeric or non-positive rate", "date", date.String(), "value", rate.Raw)
			return true
		}
		result.Points = append(result.Points, model.RatePoint{Date: date.String(), Rate: rate.Float()})
		return true
	})

	return result, nil
}

// errorCode prefers the symbolic error type and falls back to the numeric code.
func errorCode(body []byte) string {
	if code := gjson.GetBytes(body, "error.type").String(); code != "" {
		return code
	}
	if code := gjson.GetBytes(body, "error.code").String(); code != "" {
		return code
	}
	return "unknown-error"
}
