package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fxconvert/internal/adapter/repository"
	"fxconvert/internal/domain/model"
	"fxconvert/internal/domain/ports"
	"fxconvert/internal/metrics"
	"fxconvert/internal/service"
	"fxconvert/internal/session"
	"fxconvert/pkg/logger"

	"github.com/fatih/color"
)

const menuText = `
1. Convert currency
2. Show rate history
3. Export results to CSV
4. Quit`

var (
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
)

// Menu is the interactive loop. It owns the session results and reads one
// choice at a time from in.
type Menu struct {
	in          *bufio.Scanner
	out         io.Writer
	exchange    ports.ExchangeService
	history     ports.HistoryService
	exporter    ports.ResultExporter
	results     *session.Results
	historyDays int
	metrics     *metrics.Metrics
	log         *logger.Logger
}

func NewMenu(in io.Reader, out io.Writer, exchange ports.ExchangeService, history ports.HistoryService,
	exporter ports.ResultExporter, results *session.Results, historyDays int, m *metrics.Metrics, log *logger.Logger) *Menu {
	return &Menu{
		in:          bufio.NewScanner(in),
		out:         out,
		exchange:    exchange,
		history:     history,
		exporter:    exporter,
		results:     results,
		historyDays: historyDays,
		metrics:     m,
		log:         log,
	}
}

// Run loops until the user quits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(m.out, menuText)
		choice, ok := m.prompt("Choose an option (1-4): ")
		if !ok {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.convert(ctx)
		case "2":
			m.showHistory(ctx)
		case "3":
			m.export()
		case "4":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			errorColor.Fprintf(m.out, "Invalid choice %q, please enter a number from 1 to 4.\n", choice)
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) convert(ctx context.Context) {
	from, ok := m.prompt("Enter base currency (e.g. USD): ")
	if !ok {
		return
	}
	to, ok := m.prompt("Enter target currency (e.g. EUR): ")
	if !ok {
		return
	}
	amount, ok := m.prompt("Enter amount: ")
	if !ok {
		return
	}

	request, err := service.NewConversionRequest(from, to, amount)
	if err != nil {
		m.reportError(err)
		return
	}

	result, err := m.exchange.ConvertCurrency(ctx, request)
	if result == nil {
		m.reportError(err)
		return
	}

	m.results.Append(*result)
	successColor.Fprintln(m.out, result.Summary())
	fmt.Fprintf(m.out, "1 %s = %.4f %s\n", result.FromCurrency, result.Rate, result.ToCurrency)

	if err != nil {
		warnColor.Fprintf(m.out, "Warning: %v\n", err)
	}
}

func (m *Menu) showHistory(ctx context.Context) {
	from, ok := m.prompt("Enter base currency (e.g. USD): ")
	if !ok {
		return
	}
	to, ok := m.prompt("Enter target currency (e.g. EUR): ")
	if !ok {
		return
	}
	daysInput, ok := m.prompt(fmt.Sprintf("Number of days [%d]: ", m.historyDays))
	if !ok {
		return
	}

	days := m.historyDays
	if daysInput != "" {
		parsed, err := strconv.Atoi(daysInput)
		if err != nil || parsed <= 0 {
			errorColor.Fprintf(m.out, "Error: invalid number of days %q.\n", daysInput)
			return
		}
		days = parsed
	}

	if err := m.history.PlotHistory(ctx, m.out, model.ParseCurrency(from), model.ParseCurrency(to), days); err != nil {
		m.reportError(err)
	}
}

func (m *Menu) export() {
	results := m.results.All()
	if err := m.exporter.Export(results); err != nil {
		m.log.Error("Failed to export results", "error", err, "path", m.exporter.Path())
		errorColor.Fprintf(m.out, "Error: could not export results: %v\n", err)
		return
	}

	m.metrics.ExportsTotal.Inc()
	successColor.Fprintf(m.out, "Exported %d result(s) to %s\n", len(results), m.exporter.Path())
}

func (m *Menu) reportError(err error) {
	errorColor.Fprintf(m.out, "Error: %s\n", describeError(err))
}

// describeError turns service and provider errors into a short message.
func describeError(err error) string {
	var fe *repository.FetchError
	switch {
	case errors.Is(err, service.ErrInvalidCurrency):
		return "invalid currency code, use three letters such as USD."
	case errors.Is(err, service.ErrInvalidAmount):
		return "invalid amount, enter a number such as 100.50."
	case errors.Is(err, service.ErrNoHistory):
		return "the provider returned no rates for that period."
	case errors.As(err, &fe):
		switch fe.Kind {
		case repository.KindTransport:
			return fmt.Sprintf("could not reach %s: %v", fe.Provider, fe.Err)
		case repository.KindHTTPStatus:
			return fmt.Sprintf("%s answered with HTTP status %d.", fe.Provider, fe.StatusCode)
		case repository.KindMalformedBody:
			return fmt.Sprintf("%s sent a response that is not valid JSON.", fe.Provider)
		case repository.KindApplication:
			return fmt.Sprintf("%s reported an error: %s", fe.Provider, fe.Code)
		}
	}
	return err.Error()
}
