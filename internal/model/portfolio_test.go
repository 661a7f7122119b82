package model

import (
	"math"
	"math/rand"
	"testing"
)

const _eps = 0.01

func assertNear(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func TestPortfolioSummaryCalculations(t *testing.T) {
	d := &PortfolioData{UserHolding: []Holding{
		{Symbol: "MAHABANK", Quantity: 10, LastTradedPrice: 150, AveragePrice: 120, ClosePrice: 145},
		{Symbol: "ICICI", Quantity: 5, LastTradedPrice: 100, AveragePrice: 110, ClosePrice: 105},
	}}

	assertNear(t, "current value", d.CurrentValue(), 2000, _eps)
	assertNear(t, "total investment", d.TotalInvestment(), 1750, _eps)
	assertNear(t, "todays pnl", d.TodaysPnL(), -25, _eps)
	assertNear(t, "total pnl", d.TotalPnL(), 250, _eps)
	assertNear(t, "pnl percentage", d.PnLPercentage(), 14.29, _eps)
}

func TestPortfolioWithNoHoldings(t *testing.T) {
	for name, d := range map[string]*PortfolioData{
		"empty": {UserHolding: []Holding{}},
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			if d.CurrentValue() != 0 || d.TotalInvestment() != 0 || d.TodaysPnL() != 0 || d.TotalPnL() != 0 {
				t.Errorf("expected zero metrics, got %+v", d.Summary())
			}
			if !math.IsNaN(d.PnLPercentage()) {
				t.Errorf("expected NaN pnl percentage, got %v", d.PnLPercentage())
			}
		})
	}
}

func TestPortfolioWithZeroQuantityHolding(t *testing.T) {
	d := &PortfolioData{UserHolding: []Holding{
		{Symbol: "SBI", Quantity: 0, LastTradedPrice: 100, AveragePrice: 90, ClosePrice: 95},
	}}

	if d.CurrentValue() != 0 || d.TotalInvestment() != 0 || d.TodaysPnL() != 0 || d.TotalPnL() != 0 {
		t.Errorf("expected zero metrics, got %+v", d.Summary())
	}
	if !math.IsNaN(d.PnLPercentage()) {
		t.Errorf("expected NaN pnl percentage, got %v", d.PnLPercentage())
	}
}

func TestPortfolioWithLoss(t *testing.T) {
	d := &PortfolioData{UserHolding: []Holding{
		{Symbol: "LOSS", Quantity: 10, LastTradedPrice: 90, AveragePrice: 100, ClosePrice: 80},
	}}

	assertNear(t, "current value", d.CurrentValue(), 900, 1e-9)
	assertNear(t, "total investment", d.TotalInvestment(), 1000, 1e-9)
	assertNear(t, "todays pnl", d.TodaysPnL(), -100, 1e-9)
	assertNear(t, "total pnl", d.TotalPnL(), -100, 1e-9)
	assertNear(t, "pnl percentage", d.PnLPercentage(), -10, _eps)
}

func TestPortfolioMixedHoldings(t *testing.T) {
	d := &PortfolioData{UserHolding: []Holding{
		{Symbol: "A", Quantity: 2, LastTradedPrice: 50, AveragePrice: 40, ClosePrice: 48},
		{Symbol: "B", Quantity: 3, LastTradedPrice: 30, AveragePrice: 35, ClosePrice: 32},
		{Symbol: "C", Quantity: 5, LastTradedPrice: 20, AveragePrice: 20, ClosePrice: 22},
	}}

	assertNear(t, "current value", d.CurrentValue(), 290, 1e-9)
	assertNear(t, "total investment", d.TotalInvestment(), 285, 1e-9)
	assertNear(t, "todays pnl", d.TodaysPnL(), 12, 1e-9)
	assertNear(t, "total pnl", d.TotalPnL(), 5, 1e-9)
	assertNear(t, "pnl percentage", d.PnLPercentage(), 5.0/285.0*100, _eps)
}

func TestHoldingDecimalValues(t *testing.T) {
	h := Holding{Symbol: "DEC", Quantity: 1.5, LastTradedPrice: 123.456, AveragePrice: 100.123, ClosePrice: 122.111}

	current := 1.5 * 123.456
	investment := 1.5 * 100.123
	total := current - investment

	assertNear(t, "current value", h.CurrentValue(), current, 0.001)
	assertNear(t, "total investment", h.TotalInvestment(), investment, 0.001)
	assertNear(t, "todays pnl", h.TodaysPnL(), 1.5*(122.111-123.456), 0.001)
	assertNear(t, "total pnl", h.TotalPnL(), total, 0.001)
	assertNear(t, "pnl percentage", h.PnLPercentage(), total/investment*100, 0.001)
}

func TestHoldingZeroInvestmentPercentageIsNotFinite(t *testing.T) {
	h := Holding{Symbol: "FREE", Quantity: 3, LastTradedPrice: 10, AveragePrice: 0, ClosePrice: 9}
	if !math.IsInf(h.PnLPercentage(), 1) {
		t.Errorf("expected +Inf for a gain over zero investment, got %v", h.PnLPercentage())
	}

	h.LastTradedPrice = -10
	if !math.IsInf(h.PnLPercentage(), -1) {
		t.Errorf("expected -Inf for a loss over zero investment, got %v", h.PnLPercentage())
	}

	h.LastTradedPrice = 0
	if !math.IsNaN(h.PnLPercentage()) {
		t.Errorf("expected NaN when both P&L and investment are zero, got %v", h.PnLPercentage())
	}
}

func TestHoldingAcceptsNegativeValues(t *testing.T) {
	h := Holding{Symbol: "SHORT", Quantity: -2, LastTradedPrice: 10, AveragePrice: 12, ClosePrice: 11}
	if h.CurrentValue() != -20 || h.TotalInvestment() != -24 || h.TotalPnL() != 4 {
		t.Errorf("unexpected metrics for short position: %v %v %v", h.CurrentValue(), h.TotalInvestment(), h.TotalPnL())
	}
}

func TestAggregateEqualsSumOfHoldings(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		n := r.Intn(20)
		holdings := make([]Holding, n)
		var current, investment, today float64
		for j := range holdings {
			holdings[j] = Holding{
				Symbol:          "S",
				Quantity:        r.Float64() * 100,
				LastTradedPrice: r.Float64()*1000 - 100,
				AveragePrice:    r.Float64() * 1000,
				ClosePrice:      r.Float64() * 1000,
			}
			current += holdings[j].CurrentValue()
			investment += holdings[j].TotalInvestment()
			today += holdings[j].TodaysPnL()
		}
		d := &PortfolioData{UserHolding: holdings}

		if d.CurrentValue() != current || d.TotalInvestment() != investment || d.TodaysPnL() != today {
			t.Fatalf("aggregate differs from per-holding sums for %d holdings", n)
		}
		if d.TotalPnL() != current-investment {
			t.Fatalf("total pnl %v != %v", d.TotalPnL(), current-investment)
		}
	}
}

func TestPortfolioAbsentData(t *testing.T) {
	var p Portfolio

	if p.Holdings() != nil {
		t.Errorf("expected no holdings, got %v", p.Holdings())
	}
	s := p.Summary()
	if s.Holdings != 0 || s.CurrentValue != 0 || s.TotalPnL != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if !math.IsNaN(s.PnLPercentage) {
		t.Errorf("expected NaN pnl percentage, got %v", s.PnLPercentage)
	}
}

func TestPortfolioHoldingsIsCopy(t *testing.T) {
	p := Portfolio{Data: &PortfolioData{UserHolding: []Holding{{Symbol: "A", Quantity: 1}}}}

	got := p.Holdings()
	got[0].Quantity = 99

	if p.Data.UserHolding[0].Quantity != 1 {
		t.Errorf("holdings copy aliased the portfolio")
	}
}

func TestPortfolioSummaryIsLive(t *testing.T) {
	p := Portfolio{Data: &PortfolioData{UserHolding: []Holding{{Symbol: "A", Quantity: 1, LastTradedPrice: 10}}}}
	before := p.Summary()

	p.Data.UserHolding = append(p.Data.UserHolding, Holding{Symbol: "B", Quantity: 2, LastTradedPrice: 5})
	after := p.Summary()

	if before.CurrentValue != 10 || after.CurrentValue != 20 || after.Holdings != 2 {
		t.Errorf("summary not recomputed: before %+v after %+v", before, after)
	}
}
