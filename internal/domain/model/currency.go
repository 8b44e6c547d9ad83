package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type Currency string

var validate = validator.New()

// ParseCurrency normalises user input into a currency code. The result is not
// validated; call IsValid before using it.
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid reports whether c is exactly three alphabetic characters. Codes are
// not checked against the ISO 4217 list.
func (c Currency) IsValid() bool {
	return validate.Var(string(c), "len=3,alpha") == nil
}

func (c Currency) String() string {
	return string(c)
}
