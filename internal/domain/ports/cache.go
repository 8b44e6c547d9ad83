package ports

import (
	"context"

	"fxconvert/internal/domain/model"
)

type RateCache interface {
	Get(ctx context.Context, pair model.CurrencyPair) (*model.ExchangeRate, bool)
	Set(ctx context.Context, rate *model.ExchangeRate) error
}
