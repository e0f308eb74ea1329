// Package report renders decision cycles and signal readings for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jb68/moneybot/internal"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#D9534F", Dark: "#FF6F61"}

	headerStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			MarginTop(1)

	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	titleStyle = cellStyle.Foreground(special).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(subtle)
	alertStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(highlight)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Cycles writes one trade table per decision cycle.
func Cycles(w io.Writer, cycles []internal.Cycle) error {
	var b strings.Builder
	for _, c := range cycles {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s, fiat %s)", c.Portfolio, c.Strategy, c.Fiat)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("cycle " + c.ID.String()))
		b.WriteString("\n")

		if len(c.Purchases) == 0 {
			b.WriteString("no trades\n")
		} else {
			t := newTable("#", "FROM", "AMOUNT", "TO", "AMOUNT")
			for i, p := range c.Purchases {
				t.Row(strconv.Itoa(i+1), p.From.String(), p.FromAmount.String(), p.To.String(), p.ToAmount.String())
			}
			b.WriteString(t.Render())
			b.WriteString("\n")
		}

		b.WriteString(fmt.Sprintf("value %s -> %s %s\n",
			c.ValueBefore.StringFixed(8), c.ValueAfter.StringFixed(8), c.Fiat))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Signals writes the signal readings of each portfolio.
func Signals(w io.Writer, reports [][]internal.CoinSignal) error {
	var b strings.Builder
	for _, report := range reports {
		if len(report) == 0 {
			continue
		}

		b.WriteString(headerStyle.Render(report[0].Portfolio))
		b.WriteString("\n")

		t := newTable("COIN", "FIAT VALUE", "BUFFED", "PPO HIST")
		for _, s := range report {
			buffed := "no"
			if s.Buffed {
				buffed = alertStyle.Render("yes")
			}
			t.Row(s.Coin.String(), s.FiatValue.StringFixed(8), buffed, strconv.FormatFloat(s.PPOHist, 'f', 6, 64))
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
