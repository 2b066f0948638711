package domain

import "github.com/shopspring/decimal"

// Money values are encoded as JSON numbers in every payload and snapshot.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

