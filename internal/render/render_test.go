package render

import (
	"strings"
	"testing"

	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
)

func samplePortfolio() model.Portfolio {
	return model.Portfolio{Data: &model.PortfolioData{UserHolding: []model.Holding{
		{Symbol: "MAHABANK", Quantity: 10, LastTradedPrice: 150, AveragePrice: 120, ClosePrice: 145},
		{Symbol: "ICICI", Quantity: 5, LastTradedPrice: 100, AveragePrice: 110, ClosePrice: 105},
	}}}
}

func TestHoldingsMarkdown(t *testing.T) {
	got := HoldingsMarkdown(samplePortfolio().Holdings())

	want := []string{
		"| MAHABANK | ₹ 150.00 | 10 | ₹ 300.00 |",
		"| ICICI | ₹ 100.00 | 5 | -₹ 50.00 |",
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("missing row %q in\n%s", w, got)
		}
	}
	if strings.Index(got, "MAHABANK") > strings.Index(got, "ICICI") {
		t.Error("rows must keep server order")
	}
}

func TestHoldingsMarkdown_Empty(t *testing.T) {
	got := HoldingsMarkdown(nil)
	if !strings.Contains(got, "_No holdings_") {
		t.Errorf("unexpected output %q", got)
	}
	if strings.Contains(got, "| Symbol |") {
		t.Error("empty list should have no table")
	}
}

func TestHoldingsMarkdown_EscapesPipes(t *testing.T) {
	got := HoldingsMarkdown([]model.Holding{{Symbol: "A|B"}})
	if !strings.Contains(got, `| A\|B |`) {
		t.Errorf("pipe not escaped in %q", got)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	s := samplePortfolio().Summary()

	collapsed := SummaryMarkdown(s, true)
	for _, hidden := range []string{RowCurrentValue, RowTotalInvestment, RowTodaysPnL} {
		if strings.Contains(collapsed, hidden) {
			t.Errorf("collapsed summary shows %q", hidden)
		}
	}
	if !strings.Contains(collapsed, "| Profit & Loss* | ₹ 250.00 (14.29%) |") {
		t.Errorf("collapsed summary missing P&L row:\n%s", collapsed)
	}

	expanded := SummaryMarkdown(s, false)
	rows := []string{
		"| Current value* | ₹ 2,000.00 |",
		"| Total investment* | ₹ 1,750.00 |",
		"| Today's Profit & Loss* | -₹ 25.00 |",
		"| Profit & Loss* | ₹ 250.00 (14.29%) |",
	}
	last := -1
	for _, r := range rows {
		i := strings.Index(expanded, r)
		if i < 0 {
			t.Fatalf("expanded summary missing %q:\n%s", r, expanded)
		}
		if i < last {
			t.Errorf("row %q out of order", r)
		}
		last = i
	}
}

func TestSummaryMarkdown_Empty(t *testing.T) {
	got := SummaryMarkdown(model.Portfolio{}.Summary(), false)
	if !strings.Contains(got, "| Profit & Loss* | ₹ 0.00 (N/A) |") {
		t.Errorf("unexpected empty summary:\n%s", got)
	}
}

func TestStateMarkdown(t *testing.T) {
	st := viewmodel.State{
		Portfolio:    samplePortfolio(),
		HasPortfolio: true,
		IsLoading:    true,
		Error:        "Something went Wrong",
		HasError:     true,
		IsCollapsed:  true,
	}
	got := StateMarkdown(st)
	for _, w := range []string{"Loading...", "**Error:** Something went Wrong", "MAHABANK", RowTotalPnL} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in\n%s", w, got)
		}
	}
	if strings.Contains(got, RowCurrentValue) {
		t.Error("collapsed state must hide detail rows")
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(HoldingsMarkdown(samplePortfolio().Holdings()), "notty", 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "MAHABANK") {
		t.Errorf("rendered output lost content:\n%s", out)
	}
}
