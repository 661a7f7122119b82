package model

// Portfolio is the root envelope of the holdings response. Data is nil when
// the server sent "data": null or omitted it.
type Portfolio struct {
	Data *PortfolioData `json:"data"`
}

type PortfolioData struct {
	UserHolding []Holding `json:"userHolding"`
}

// Holdings returns a copy of the holdings in server order.
func (p Portfolio) Holdings() []Holding {
	if p.Data == nil || p.Data.UserHolding == nil {
		return nil
	}
	holdings := make([]Holding, len(p.Data.UserHolding))
	copy(holdings, p.Data.UserHolding)
	return holdings
}

func (p Portfolio) Summary() Summary {
	return p.Data.Summary()
}

// Aggregates below are safe on a nil receiver and treat it as no holdings.

func (d *PortfolioData) CurrentValue() float64 {
	var sum float64
	for _, h := range d.holdings() {
		sum += h.CurrentValue()
	}
	return sum
}

func (d *PortfolioData) TotalInvestment() float64 {
	var sum float64
	for _, h := range d.holdings() {
		sum += h.TotalInvestment()
	}
	return sum
}

func (d *PortfolioData) TodaysPnL() float64 {
	var sum float64
	for _, h := range d.holdings() {
		sum += h.TodaysPnL()
	}
	return sum
}

func (d *PortfolioData) TotalPnL() float64 {
	return d.CurrentValue() - d.TotalInvestment()
}

// PnLPercentage is not finite when TotalInvestment is zero. No holdings
// gives NaN.
func (d *PortfolioData) PnLPercentage() float64 {
	return d.TotalPnL() / d.TotalInvestment() * 100
}

func (d *PortfolioData) Summary() Summary {
	return Summary{
		Holdings:        len(d.holdings()),
		CurrentValue:    d.CurrentValue(),
		TotalInvestment: d.TotalInvestment(),
		TodaysPnL:       d.TodaysPnL(),
		TotalPnL:        d.TotalPnL(),
		PnLPercentage:   d.PnLPercentage(),
	}
}

func (d *PortfolioData) holdings() []Holding {
	if d == nil {
		return nil
	}
	return d.UserHolding
}

// Summary is a point-in-time copy of the aggregate metrics.
type Summary struct {
	Holdings        int
	CurrentValue    float64
	TotalInvestment float64
	TodaysPnL       float64
	TotalPnL        float64
	PnLPercentage   float64
}
