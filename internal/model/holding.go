package model

// Holding is one position as reported by the holdings endpoint.
// Prices are not validated: zero and negative values pass through.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	LastTradedPrice float64 `json:"ltp"`
	AveragePrice    float64 `json:"avgPrice"`
	ClosePrice      float64 `json:"close"`
}

func (h Holding) CurrentValue() float64 {
	return h.Quantity * h.LastTradedPrice
}

func (h Holding) TotalInvestment() float64 {
	return h.Quantity * h.AveragePrice
}

func (h Holding) TodaysPnL() float64 {
	return h.Quantity * (h.ClosePrice - h.LastTradedPrice)
}

func (h Holding) TotalPnL() float64 {
	return h.CurrentValue() - h.TotalInvestment()
}

// PnLPercentage is not finite when TotalInvestment is zero: NaN when the
// P&L is zero too, ±Inf otherwise.
func (h Holding) PnLPercentage() float64 {
	return h.TotalPnL() / h.TotalInvestment() * 100
}
