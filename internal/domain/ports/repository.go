package ports

import (
	"context"

	"fxconvert/internal/domain/model"
)

// RateRepository returns spot rates for a single currency pair.
type RateRepository interface {
	FetchLatestRate(ctx context.Context, pair model.CurrencyPair) (*model.ExchangeRate, error)
}

// HistoryRepository returns a day-indexed rate series.
type HistoryRepository interface {
	FetchHistoricalRates(ctx context.Context, request model.HistoricalRateRequest) (*model.HistoricalRates, error)
}
