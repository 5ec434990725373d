package networth

import "math"

// BankSummary totals the bank accounts.
type BankSummary struct {
	USD          float64 `json:"usd"`
	TWD          float64 `json:"twd"`
	Loans        float64 `json:"loans"`
	TotalCashTWD float64 `json:"totalCashTWD"`
}

// PledgeSummary totals the pledge loans against their live collateral.
type PledgeSummary struct {
	TotalLoan        float64 `json:"totalLoan"`
	TotalCollateral  float64 `json:"totalCollateral"`
	MaintenanceRatio float64 `json:"maintenanceRatio"`
}

// Metrics is the consolidated view of the book, in TWD.
type Metrics struct {
	Bank   BankSummary   `json:"bank"`
	Pledge PledgeSummary `json:"pledge"`

	StockMarketValueTWD float64 `json:"stockMarketValueTWD"`
	StockCostTWD        float64 `json:"stockCostTWD"`
	UnrealizedPnLTWD    float64 `json:"unrealizedPnLTWD"`
	RealizedPnLTWD      float64 `json:"realizedPnLTWD"`
	TotalPnLTWD         float64 `json:"totalPnLTWD"`

	CategoryTotals map[Category]float64 `json:"categoryTotals"`

	TotalAssets      float64 `json:"totalAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	NetWorth         float64 `json:"netWorth"`
	PortfolioBeta    float64 `json:"portfolioBeta"`
}

// orZero coerces a non-number to 0.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// SummarizeBank totals the accounts, valuing USD cash at rates["USD"].
//
// Unparseable balances count as 0. A missing USD rate values USD cash at 0.
func SummarizeBank(accounts []BankAccount, rates Rates) BankSummary {
	var s BankSummary
	for _, a := range accounts {
		s.USD += orZero(a.USD)
		s.TWD += orZero(a.TWD)
		s.Loans += orZero(a.Loan)
	}
	s.TotalCashTWD = s.TWD + s.USD*rates["USD"]
	return s
}

// SummarizePledges totals the loans and the live value of their collateral.
func SummarizePledges(pledges []PledgeRecord, prices map[string]float64) PledgeSummary {
	var s PledgeSummary
	for _, p := range pledges {
		s.TotalLoan += p.LoanAmount
		s.TotalCollateral += p.LiveCollateral(prices)
	}
	s.MaintenanceRatio = maintenanceRatio(s.TotalCollateral, s.TotalLoan)
	return s
}

// Aggregate joins the positions with bank cash and pledge loans.
//
// Only open positions count toward market value, cost, categories and beta;
// realized P&L is taken from every position. Bank cash is counted as
// cash-like exposure.
func Aggregate(positions []Position, bank []BankAccount, pledges []PledgeRecord, prices map[string]float64, rates Rates) Metrics {
	m := Metrics{
		Bank:           SummarizeBank(bank, rates),
		Pledge:         SummarizePledges(pledges, prices),
		CategoryTotals: make(map[Category]float64, len(Categories)),
	}
	for _, c := range Categories {
		m.CategoryTotals[c] = 0
	}
	m.CategoryTotals[Cashlike] += m.Bank.TotalCashTWD

	open := OpenPositions(positions)
	for _, p := range open {
		m.StockMarketValueTWD += p.MarketValueTWD
		m.StockCostTWD += p.CostTWD(rates)
		m.CategoryTotals[p.Category] += p.MarketValueTWD
	}
	for _, p := range positions {
		m.RealizedPnLTWD += p.RealizedPnLTWD(rates)
	}
	m.UnrealizedPnLTWD = m.StockMarketValueTWD - m.StockCostTWD
	m.TotalPnLTWD = m.UnrealizedPnLTWD + m.RealizedPnLTWD

	m.TotalAssets = m.StockMarketValueTWD + m.Bank.TotalCashTWD
	m.TotalLiabilities = m.Bank.Loans + m.Pledge.TotalLoan
	m.NetWorth = m.TotalAssets - m.TotalLiabilities

	denominator := m.TotalAssets
	if denominator == 0 {
		denominator = 1
	}
	for _, p := range open {
		m.PortfolioBeta += p.Beta * p.MarketValueTWD / denominator
	}
	return m
}

// Allocation returns the share of v in the total assets, in percent, or 0
// when there are no assets.
func (m Metrics) Allocation(v float64) float64 {
	if m.TotalAssets == 0 {
		return 0
	}
	return v / m.TotalAssets * 100
}

// CategoryWeight returns the share of category c in the total assets, in
// percent.
func (m Metrics) CategoryWeight(c Category) float64 { return m.Allocation(m.CategoryTotals[c]) }
