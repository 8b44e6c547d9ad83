package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExchangeRate struct {
	BaseCurrency   Currency  `json:"base_currency"`
	TargetCurrency Currency  `json:"target_currency"`
	Rate           float64   `json:"rate"`
	Date           time.Time `json:"date"`
	LastUpdated    time.Time `json:"last_updated"`
}

func (r ExchangeRate) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrency: r.BaseCurrency, TargetCurrency: r.TargetCurrency}
}

type CurrencyPair struct {
	BaseCurrency   Currency `json:"base_currency"`
	TargetCurrency Currency `json:"target_currency"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s-%s", p.BaseCurrency, p.TargetCurrency)
}

type ConversionRequest struct {
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	Amount       decimal.Decimal `json:"amount"`
}

type ConversionResult struct {
	ID           uuid.UUID       `json:"id"`
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	FromAmount   decimal.Decimal `json:"from_amount"`
	ToAmount     decimal.Decimal `json:"to_amount"`
	Rate         float64         `json:"rate"`
	ConvertedAt  time.Time       `json:"converted_at"`
}

// Summary renders the result the way it is shown to the user,
// e.g. "100.00 USD = 92.00 EUR".
func (r ConversionResult) Summary() string {
	return fmt.Sprintf("%s %s = %s %s",
		r.FromAmount.StringFixed(2), r.FromCurrency,
		r.ToAmount.StringFixed(2), r.ToCurrency)
}

// LogLine renders the audit log entry,
// e.g. "100.00 USD to EUR: 92.00 (Rate: 0.9200)".
func (r ConversionResult) LogLine() string {
	return fmt.Sprintf("%s %s to %s: %s (Rate: %.4f)",
		r.FromAmount.StringFixed(2), r.FromCurrency, r.ToCurrency,
		r.ToAmount.StringFixed(2), r.Rate)
}

type HistoricalRateRequest struct {
	BaseCurrency   Currency  `json:"base_currency"`
	TargetCurrency Currency  `json:"target_currency"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

// RatePoint is a single day of a rate series. Date is YYYY-MM-DD.
type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type HistoricalRates struct {
	BaseCurrency   Currency    `json:"base_currency"`
	TargetCurrency Currency    `json:"target_currency"`
	Points         []RatePoint `json:"points"`
}
