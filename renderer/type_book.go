package renderer

import (
	"slices"
	"strings"

	"github.com/etnz/networth"
)

// TransactionList is the transaction log, newest first.
type TransactionList struct {
	// Symbol is the filter applied, if any.
	Symbol       string                 `json:"symbol,omitempty"`
	Transactions []networth.Transaction `json:"transactions"`
}

// NewTransactionList lists the transactions of s, restricted to symbol when
// not empty.
func NewTransactionList(s *networth.State, symbol string) *TransactionList {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	l := &TransactionList{Symbol: symbol}
	// the log is stored newest first, a stable sort keeps that order
	// within a day.
	sorted := slices.Clone(s.Transactions)
	slices.SortStableFunc(sorted, func(a, b networth.Transaction) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		}
		return 0
	})
	for _, tx := range sorted {
		if symbol == "" || tx.Symbol == symbol {
			l.Transactions = append(l.Transactions, tx)
		}
	}
	return l
}

// BankReport is the bank balances and their consolidated value.
type BankReport struct {
	Accounts []networth.BankAccount `json:"accounts"`
	USDRate  float64                `json:"usdRate"`
	Summary  networth.BankSummary   `json:"summary"`
}

// NewBankReport builds the bank report of s.
func NewBankReport(s *networth.State) *BankReport {
	return &BankReport{
		Accounts: s.Bank,
		USDRate:  s.Rates["USD"],
		Summary:  networth.SummarizeBank(s.Bank, s.Rates),
	}
}

// PledgeReport is the pledge loans valued at the current prices.
type PledgeReport struct {
	Pledges []PledgeRow            `json:"pledges"`
	Summary networth.PledgeSummary `json:"summary"`
	Status  networth.RatioStatus   `json:"status"`
	// MarginCall is the ratio under which the lender sells the collateral.
	MarginCall float64 `json:"marginCall"`
}

// PledgeRow is a pledge and its live figures.
type PledgeRow struct {
	networth.PledgeRecord
	LiveCollateral   float64              `json:"liveCollateral"`
	MaintenanceRatio float64              `json:"maintenanceRatio"`
	Status           networth.RatioStatus `json:"status"`
}

// RatePct is the annual rate in percent.
func (r PledgeRow) RatePct() float64 { return r.Rate * 100 }

// NewPledgeReport builds the pledge report of s.
func NewPledgeReport(s *networth.State) *PledgeReport {
	summary := networth.SummarizePledges(s.Pledges, s.Prices)
	r := &PledgeReport{
		Summary:    summary,
		Status:     networth.StatusOf(summary.MaintenanceRatio),
		MarginCall: networth.MarginCallRatio,
	}
	for _, p := range s.Pledges {
		ratio := p.MaintenanceRatio(s.Prices)
		r.Pledges = append(r.Pledges, PledgeRow{
			PledgeRecord:     p,
			LiveCollateral:   p.LiveCollateral(s.Prices),
			MaintenanceRatio: ratio,
			Status:           networth.StatusOf(ratio),
		})
	}
	return r
}
