package model

import "github.com/shopspring/decimal"

func init() {
	// amounts and balances go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Money scale persisted by the store, numeric(19,4).
const MoneyScale = 4

// MoneyIntegerDigits is what numeric(19,4) leaves left of the point.
const MoneyIntegerDigits = 19 - MoneyScale

// MaxBalance is the largest value an account balance or amount can hold.
var MaxBalance = decimal.RequireFromString("999999999999999.9999")
