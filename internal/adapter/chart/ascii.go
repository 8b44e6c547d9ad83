package chart

import (
	"errors"
	"fmt"
	"io"

	"fxconvert/internal/domain/model"

	"github.com/guptarohit/asciigraph"
)

var ErrNoData = errors.New("no rates to plot")

// ASCIIPlotter draws a rate series as a terminal line chart. The y axis is
// the rate, the x axis runs over the dates in order.
type ASCIIPlotter struct {
	Height int
}

func NewASCIIPlotter() *ASCIIPlotter {
	return &ASCIIPlotter{Height: 12}
}

func (p *ASCIIPlotter) Render(w io.Writer, history *model.HistoricalRates) error {
	if history == nil || len(history.Points) == 0 {
		return ErrNoData
	}

	series := make([]float64, 0, len(history.Points))
	for _, point := range history.Points {
		series = append(series, point.Rate)
	}
	if len(series) == 1 {
		series = append(series, series[0])
	}

	first := history.Points[0].Date
	last := history.Points[len(history.Points)-1].Date
	caption := fmt.Sprintf("%s/%s exchange rate, %s .. %s", history.BaseCurrency, history.TargetCurrency, first, last)

	graph := asciigraph.Plot(series,
		asciigraph.Height(p.Height),
		asciigraph.Precision(4),
		asciigraph.Caption(caption),
	)

	if _, err := fmt.Fprintln(w, graph); err != nil {
		return err
	}

	for _, point := range history.Points {
		if _, err := fmt.Fprintf(w, "  %s  %.4f\n", point.Date, point.Rate); err != nil {
			return err
		}
	}
	return nil
}
