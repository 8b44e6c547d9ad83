package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fxconvert/internal/domain/model"
	"fxconvert/internal/domain/ports"
	"fxconvert/internal/metrics"
	"fxconvert/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrExternalAPIFailure = errors.New("external API failure")
	ErrAuditLog           = errors.New("conversion log write failed")
	ErrNoHistory          = errors.New("no historical rates returned")
)

type ExchangeService struct {
	repository    ports.RateRepository
	cache         ports.RateCache
	conversionLog ports.ConversionLog
	metrics       *metrics.Metrics
	log           *logger.Logger
}

func NewExchangeService(repository ports.RateRepository, cache ports.RateCache, conversionLog ports.ConversionLog, m *metrics.Metrics, log *logger.Logger) *ExchangeService {
	return &ExchangeService{
		repository:    repository,
		cache:         cache,
		conversionLog: conversionLog,
		metrics:       m,
		log:           log,
	}
}

// NewConversionRequest validates raw user input: both currency codes first,
// then the amount.
func NewConversionRequest(from, to, amount string) (model.ConversionRequest, error) {
	fromCurrency := model.ParseCurrency(from)
	toCurrency := model.ParseCurrency(to)
	if !fromCurrency.IsValid() || !toCurrency.IsValid() {
		return model.ConversionRequest{}, fmt.Errorf("%w: %q -> %q", ErrInvalidCurrency, from, to)
	}

	value, err := ParseAmount(amount)
	if err != nil {
		return model.ConversionRequest{}, err
	}

	return model.ConversionRequest{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		Amount:       value,
	}, nil
}

// Amounts outside these bounds would format into unbounded output.
const (
	maxAmountExponent = 18
	maxAmountDigits   = 30
)

// ParseAmount accepts any finite decimal number within the size bounds. Zero
// and negative amounts are allowed.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	exp := value.Exponent()
	digits := len(new(big.Int).Abs(value.Coefficient()).String())
	if exp > maxAmountExponent || exp < -maxAmountExponent || digits > maxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return value, nil
}

func (s *ExchangeService) GetLatestRate(ctx context.Context, from, to model.Currency) (*model.ExchangeRate, error) {

	if !from.IsValid() || !to.IsValid() {
		return nil, ErrInvalidCurrency
	}

	pair := model.CurrencyPair{
		BaseCurrency:   from,
		TargetCurrency: to,
	}

	if rate, found := s.cache.Get(ctx, pair); found {
		s.metrics.CacheHitsTotal.Inc()
		s.log.Info("Exchange rate found in cache", "pair", pair.String())
		return rate, nil
	}
	s.metrics.CacheMissesTotal.Inc()

	s.log.Info("Fetching exchange rate from repository", "pair", pair.String())
	rate, err := s.repository.FetchLatestRate(ctx, pair)
	if err != nil {
		s.log.Error("Failed to fetch exchange rate", "error", err, "pair", pair.String())
		return nil, fmt.Errorf("%w: %w", ErrExternalAPIFailure, err)
	}

	if err := s.cache.Set(ctx, rate); err != nil {
		s.log.Error("Failed to cache exchange rate", "error", err, "pair", pair.String())
	}

	return rate, nil
}

// ConvertCurrency converts request.Amount at the current rate and records the
// result in the conversion log. When only the log write fails, the result is
// returned together with an error wrapping ErrAuditLog.
func (s *ExchangeService) ConvertCurrency(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error) {
	s.metrics.ConversionRequestsTotal.Inc()

	from := model.ParseCurrency(request.FromCurrency.String())
	to := model.ParseCurrency(request.ToCurrency.String())
	if !from.IsValid() || !to.IsValid() {
		return nil, ErrInvalidCurrency
	}

	rate, err := s.GetLatestRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := &model.ConversionResult{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   request.Amount,
		ToAmount:     request.Amount.Mul(decimal.NewFromFloat(rate.Rate)),
		Rate:         rate.Rate,
		ConvertedAt:  time.Now(),
	}

	s.log.Debug("Converted amount", "id", result.ID, "pair", rate.Pair().String(), "amount", result.FromAmount, "result", result.ToAmount)

	if s.conversionLog != nil {
		if err := s.conversionLog.Record(*result); err != nil {
			s.metrics.AuditFailuresTotal.Inc()
			s.log.Error("Failed to record conversion", "error", err, "id", result.ID)
			return result, fmt.Errorf("%w: %w", ErrAuditLog, err)
		}
	}

	return result, nil
}
