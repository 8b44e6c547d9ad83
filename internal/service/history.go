package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"fxconvert/internal/domain/model"
	"fxconvert/internal/domain/ports"
	"fxconvert/internal/metrics"
	"fxconvert/pkg/logger"
	"fxconvert/pkg/utils"
)

const DefaultHistoryDays = 7

type HistoryService struct {
	repository ports.HistoryRepository
	renderer   ports.ChartRenderer
	metrics    *metrics.Metrics
	log        *logger.Logger
	now        func() time.Time
}

func NewHistoryService(repository ports.HistoryRepository, renderer ports.ChartRenderer, m *metrics.Metrics, log *logger.Logger) *HistoryService {
	return &HistoryService{
		repository: repository,
		renderer:   renderer,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func (s *HistoryService) GetHistoricalRates(ctx context.Context, from, to model.Currency, days int) (*model.HistoricalRates, error) {
	s.metrics.HistoricalRequestsTotal.Inc()

	from = model.ParseCurrency(from.String())
	to = model.ParseCurrency(to.String())
	if !from.IsValid() || !to.IsValid() {
		return nil, ErrInvalidCurrency
	}

	if days <= 0 {
		days = DefaultHistoryDays
	}

	start, end := utils.TrailingWindow(s.now(), days)
	request := model.HistoricalRateRequest{
		BaseCurrency:   from,
		TargetCurrency: to,
		StartDate:      start,
		EndDate:        end,
	}

	rates, err := s.repository.FetchHistoricalRates(ctx, request)
	if err != nil {
		s.log.Error("Failed to fetch historical rates", "error", err, "base", from, "target", to)
		return nil, fmt.Errorf("%w: %w", ErrExternalAPIFailure, err)
	}

	if len(rates.Points) == 0 {
		return nil, ErrNoHistory
	}

	sort.Slice(rates.Points, func(i, j int) bool {
		return rates.Points[i].Date < rates.Points[j].Date
	})

	return rates, nil
}

// PlotHistory fetches the trailing days of rates for the pair and draws them
// to w. A non-positive days value falls back to DefaultHistoryDays.
func (s *HistoryService) PlotHistory(ctx context.Context, w io.Writer, from, to model.Currency, days int) error {
	rates, err := s.GetHistoricalRates(ctx, from, to, days)
	if err != nil {
		return err
	}

	s.log.Info("Rendering rate history", "base", rates.BaseCurrency, "target", rates.TargetCurrency, "points", len(rates.Points))
	return s.renderer.Render(w, rates)
}
