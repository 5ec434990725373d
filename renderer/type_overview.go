package renderer

import (
	"github.com/etnz/networth"
)

// Overview is the dashboard: net worth, its breakdown and the holdings.
type Overview struct {
	RateMode networth.RateMode `json:"rateMode"`
	// USDRate is the TWD value of one USD used for the figures.
	USDRate float64          `json:"usdRate"`
	Metrics networth.Metrics `json:"metrics"`

	// Categories lists the displayed risk buckets, Other excluded.
	Categories []CategoryRow `json:"categories"`
	// Loans lists the banks with an outstanding loan.
	Loans []LoanRow `json:"loans"`

	Holdings []HoldingRow `json:"holdings"`
	// Closed positions are only rendered when ShowClosed is set.
	Closed     []ClosedRow `json:"closed"`
	ShowClosed bool        `json:"showClosed"`
}

// CategoryRow is the weight of one risk bucket in the total assets.
type CategoryRow struct {
	Category networth.Category `json:"category"`
	Rule     string            `json:"rule"`
	Value    float64           `json:"value"`
	Weight   float64           `json:"weight"`
}

// LoanRow is one liability line.
type LoanRow struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// HoldingRow is an open position and its share of the total assets.
type HoldingRow struct {
	networth.Position
	Allocation float64 `json:"allocation"`
}

// ClosedRow is a fully sold position and what it realized, in TWD.
type ClosedRow struct {
	Symbol         string            `json:"symbol"`
	Category       networth.Category `json:"category"`
	RealizedPnLTWD float64           `json:"realizedPnLTWD"`
}

// NewOverview computes the dashboard of s.
func NewOverview(s *networth.State, showClosed bool) *Overview {
	positions := s.Positions()
	m := s.Metrics(positions)

	o := &Overview{
		RateMode:   s.RateMode,
		USDRate:    s.Rates["USD"],
		Metrics:    m,
		ShowClosed: showClosed,
	}
	for _, c := range networth.Categories {
		if c == networth.Other {
			continue
		}
		o.Categories = append(o.Categories, CategoryRow{
			Category: c,
			Rule:     c.Rule(),
			Value:    m.CategoryTotals[c],
			Weight:   m.CategoryWeight(c),
		})
	}
	for _, acct := range s.Bank {
		if acct.Loan > 0 {
			o.Loans = append(o.Loans, LoanRow{Name: acct.Bank, Amount: acct.Loan})
		}
	}
	for _, p := range networth.OpenPositions(positions) {
		o.Holdings = append(o.Holdings, HoldingRow{Position: p, Allocation: m.Allocation(p.MarketValueTWD)})
	}
	for _, p := range networth.ClosedPositions(positions) {
		o.Closed = append(o.Closed, ClosedRow{
			Symbol:         p.Symbol,
			Category:       p.Category,
			RealizedPnLTWD: p.RealizedPnLTWD(s.Rates),
		})
	}
	return o
}
