// Package render turns holdings state into markdown and terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/STTM-NSU/holdings/internal/format"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
	"github.com/charmbracelet/glamour"
)

const (
	RowCurrentValue    = "Current value*"
	RowTotalInvestment = "Total investment*"
	RowTodaysPnL       = "Today's Profit & Loss*"
	RowTotalPnL        = "Profit & Loss*"

	_defaultWordWrap = 100
)

// HoldingsMarkdown renders one table row per holding in server order.
func HoldingsMarkdown(holdings []model.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "_No holdings_")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | LTP | NET QTY | P&L |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escape(h.Symbol),
			format.Currency(h.LastTradedPrice),
			format.Quantity(h.Quantity),
			format.Currency(h.TotalPnL()),
		)
	}
	return b.String()
}

// SummaryMarkdown renders the summary panel. A collapsed panel shows only
// the profit and loss row.
func SummaryMarkdown(s model.Summary, collapsed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	if !collapsed {
		fmt.Fprintf(&b, "| %s | %s |\n", RowCurrentValue, format.Currency(s.CurrentValue))
		fmt.Fprintf(&b, "| %s | %s |\n", RowTotalInvestment, format.Currency(s.TotalInvestment))
		fmt.Fprintf(&b, "| %s | %s |\n", RowTodaysPnL, format.Currency(s.TodaysPnL))
	}
	fmt.Fprintf(&b, "| %s | %s |\n", RowTotalPnL, format.CurrencyWithPercentage(s.TotalPnL, s.TotalInvestment))
	return b.String()
}

// StateMarkdown renders the whole screen: status line, holdings and summary.
func StateMarkdown(st viewmodel.State) string {
	var b strings.Builder
	if st.IsLoading {
		fmt.Fprintf(&b, "> Loading...\n\n")
	}
	if st.HasError {
		fmt.Fprintf(&b, "> **Error:** %s\n\n", st.Error)
	}
	b.WriteString(HoldingsMarkdown(st.Portfolio.Holdings()))
	b.WriteString("\n")
	b.WriteString(SummaryMarkdown(st.Portfolio.Summary(), st.IsCollapsed))
	return b.String()
}

// Terminal renders markdown for an ANSI terminal. style is a glamour
// standard style name ("dark", "light", "notty"); empty picks one from the
// environment.
func Terminal(md, style string, wordWrap int) (string, error) {
	if wordWrap <= 0 {
		wordWrap = _defaultWordWrap
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return "", fmt.Errorf("%w: can't create terminal renderer", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("%w: can't render markdown", err)
	}
	return out, nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
