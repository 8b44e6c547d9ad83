package ports

import (
	"context"
	"io"

	"fxconvert/internal/domain/model"
)

type ExchangeService interface {
	GetLatestRate(ctx context.Context, from, to model.Currency) (*model.ExchangeRate, error)
	ConvertCurrency(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error)
}

type HistoryService interface {
	PlotHistory(ctx context.Context, w io.Writer, from, to model.Currency, days int) error
}

// ConversionLog receives every successful conversion.
type ConversionLog interface {
	Record(result model.ConversionResult) error
}

type ResultExporter interface {
	Export(results []model.ConversionResult) error
	Path() string
}

type ChartRenderer interface {
	Render(w io.Writer, history *model.HistoricalRates) error
}
