package model

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrMissingField reports a required key that is absent or null.
var ErrMissingField = errors.New("missing required field")

type rawHolding struct {
	Symbol          *string  `json:"symbol"`
	Quantity        *float64 `json:"quantity"`
	LastTradedPrice *float64 `json:"ltp"`
	AveragePrice    *float64 `json:"avgPrice"`
	ClosePrice      *float64 `json:"close"`
}

// UnmarshalJSON requires every key to be present and non-null.
func (h *Holding) UnmarshalJSON(b []byte) error {
	var raw rawHolding
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: can't decode holding", err)
	}

	switch {
	case raw.Symbol == nil:
		return fmt.Errorf("%w: symbol", ErrMissingField)
	case raw.Quantity == nil:
		return fmt.Errorf("%w: quantity", ErrMissingField)
	case raw.LastTradedPrice == nil:
		return fmt.Errorf("%w: ltp", ErrMissingField)
	case raw.AveragePrice == nil:
		return fmt.Errorf("%w: avgPrice", ErrMissingField)
	case raw.ClosePrice == nil:
		return fmt.Errorf("%w: close", ErrMissingField)
	}

	*h = Holding{
		Symbol:          *raw.Symbol,
		Quantity:        *raw.Quantity,
		LastTradedPrice: *raw.LastTradedPrice,
		AveragePrice:    *raw.AveragePrice,
		ClosePrice:      *raw.ClosePrice,
	}
	return nil
}

type rawPortfolioData struct {
	UserHolding *[]Holding `json:"userHolding"`
}

// UnmarshalJSON requires userHolding to be present and non-null. An empty
// list is fine.
func (d *PortfolioData) UnmarshalJSON(b []byte) error {
	var raw rawPortfolioData
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: can't decode portfolio data", err)
	}
	if raw.UserHolding == nil {
		return fmt.Errorf("%w: userHolding", ErrMissingField)
	}
	d.UserHolding = *raw.UserHolding
	return nil
}
