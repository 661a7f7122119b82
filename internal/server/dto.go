package server

import (
	"math"

	"github.com/STTM-NSU/holdings/internal/format"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/STTM-NSU/holdings/internal/render"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
)

// StateResponse is the JSON body of GET /api/holdings.
type StateResponse struct {
	Holdings     []HoldingResponse `json:"holdings"`
	Summary      SummaryResponse   `json:"summary"`
	HasPortfolio bool              `json:"hasPortfolio"`
	Loading      bool              `json:"loading"`
	Error        *string           `json:"error"`
	Collapsed    bool              `json:"collapsed"`
}

type HoldingResponse struct {
	Symbol          string   `json:"symbol"`
	Quantity        float64  `json:"quantity"`
	LastTradedPrice float64  `json:"ltp"`
	AveragePrice    float64  `json:"avgPrice"`
	ClosePrice      float64  `json:"close"`
	CurrentValue    float64  `json:"currentValue"`
	TotalInvestment float64  `json:"totalInvestment"`
	TodaysPnL       float64  `json:"todaysPnl"`
	TotalPnL        float64  `json:"totalPnl"`
	PnLPercentage   *float64 `json:"pnlPercentage"` // null when undefined
	Display         struct {
		LTP      string `json:"ltp"`
		Quantity string `json:"quantity"`
		PnL      string `json:"pnl"`
	} `json:"display"`
}

type SummaryResponse struct {
	Holdings        int      `json:"holdings"`
	CurrentValue    float64  `json:"currentValue"`
	TotalInvestment float64  `json:"totalInvestment"`
	TodaysPnL       float64  `json:"todaysPnl"`
	TotalPnL        float64  `json:"totalPnl"`
	PnLPercentage   *float64 `json:"pnlPercentage"`
	// Rows lists the summary rows visible in the current collapsed state.
	Rows []SummaryRow `json:"rows"`
}

type SummaryRow struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

func newStateResponse(st viewmodel.State) StateResponse {
	holdings := st.Portfolio.Holdings()
	resp := StateResponse{
		Holdings:     make([]HoldingResponse, 0, len(holdings)),
		Summary:      newSummaryResponse(st.Portfolio.Summary(), st.IsCollapsed),
		HasPortfolio: st.HasPortfolio,
		Loading:      st.IsLoading,
		Collapsed:    st.IsCollapsed,
	}
	if st.HasError {
		msg := st.Error
		resp.Error = &msg
	}

	for _, h := range holdings {
		hr := HoldingResponse{
			Symbol:          h.Symbol,
			Quantity:        h.Quantity,
			LastTradedPrice: h.LastTradedPrice,
			AveragePrice:    h.AveragePrice,
			ClosePrice:      h.ClosePrice,
			CurrentValue:    h.CurrentValue(),
			TotalInvestment: h.TotalInvestment(),
			TodaysPnL:       h.TodaysPnL(),
			TotalPnL:        h.TotalPnL(),
			PnLPercentage:   finiteOrNil(h.PnLPercentage()),
		}
		hr.Display.LTP = format.Currency(h.LastTradedPrice)
		hr.Display.Quantity = format.Quantity(h.Quantity)
		hr.Display.PnL = format.Currency(h.TotalPnL())
		resp.Holdings = append(resp.Holdings, hr)
	}
	return resp
}

func newSummaryResponse(s model.Summary, collapsed bool) SummaryResponse {
	resp := SummaryResponse{
		Holdings:        s.Holdings,
		CurrentValue:    s.CurrentValue,
		TotalInvestment: s.TotalInvestment,
		TodaysPnL:       s.TodaysPnL,
		TotalPnL:        s.TotalPnL,
		PnLPercentage:   finiteOrNil(s.PnLPercentage),
	}
	if !collapsed {
		resp.Rows = append(resp.Rows,
			SummaryRow{Title: render.RowCurrentValue, Value: format.Currency(s.CurrentValue)},
			SummaryRow{Title: render.RowTotalInvestment, Value: format.Currency(s.TotalInvestment)},
			SummaryRow{Title: render.RowTodaysPnL, Value: format.Currency(s.TodaysPnL)},
		)
	}
	resp.Rows = append(resp.Rows, SummaryRow{
		Title: render.RowTotalPnL,
		Value: format.CurrencyWithPercentage(s.TotalPnL, s.TotalInvestment),
	})
	return resp
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
