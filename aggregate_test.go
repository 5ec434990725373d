package networth

import (
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	rates := Rates{"USD": 30, "TWD": 1}
	txs := []Transaction{
		tx("2025-01-01", Buy, "0050", 1000, 100, "TWD"),
		tx("2025-01-01", Buy, "TQQQ", 10, 50, "USD"),
		tx("2025-01-02", Buy, "BND", 100, 70, "USD"),
		tx("2025-01-03", Buy, "OLD", 10, 10, "TWD"),
		tx("2025-01-04", Sell, "OLD", 10, 15, "TWD"),
	}
	prices := map[string]float64{"0050": 120, "TQQQ": 60, "BND": 72, "2330": 1000}
	betas := map[string]float64{"TQQQ": 3, "BND": 0.2}
	positions := Valuate(txs, prices, betas, rates)

	bank := []BankAccount{
		{Bank: "台銀", USD: 1000, TWD: 50000, Loan: 10000},
		{Bank: "國泰", TWD: 20000, Loan: math.NaN()},
	}
	pledges := []PledgeRecord{
		{Symbol: "2330", Qty: 100, LoanAmount: 50000},
		{Symbol: "UNPRICED", Qty: 100, LoanAmount: 10000},
	}

	m := Aggregate(positions, bank, pledges, prices, rates)

	// bank: 70000 TWD + 1000 USD * 30
	assertNear(t, "Bank.TotalCashTWD", m.Bank.TotalCashTWD, 100000)
	assertNear(t, "Bank.Loans", m.Bank.Loans, 10000)
	assertNear(t, "Bank.USD", m.Bank.USD, 1000)

	assertNear(t, "Pledge.TotalLoan", m.Pledge.TotalLoan, 60000)
	assertNear(t, "Pledge.TotalCollateral", m.Pledge.TotalCollateral, 100000)
	assertNear(t, "Pledge.MaintenanceRatio", m.Pledge.MaintenanceRatio, 100000.0/60000*100)

	// 0050: 120000, TQQQ: 600*30, BND: 7200*30
	stocks := 120000.0 + 18000 + 216000
	cost := 100000.0 + 500*30 + 7000*30
	assertNear(t, "StockMarketValueTWD", m.StockMarketValueTWD, stocks)
	assertNear(t, "StockCostTWD", m.StockCostTWD, cost)
	assertNear(t, "UnrealizedPnLTWD", m.UnrealizedPnLTWD, stocks-cost)
	assertNear(t, "RealizedPnLTWD", m.RealizedPnLTWD, 50)
	assertNear(t, "TotalPnLTWD", m.TotalPnLTWD, stocks-cost+50)

	assertNear(t, "TotalAssets", m.TotalAssets, stocks+100000)
	assertNear(t, "TotalLiabilities", m.TotalLiabilities, 70000)
	assertNear(t, "NetWorth", m.NetWorth, stocks+100000-70000)

	assertNear(t, "CategoryTotals[Plain]", m.CategoryTotals[Plain], 120000)
	assertNear(t, "CategoryTotals[Leveraged]", m.CategoryTotals[Leveraged], 18000)
	assertNear(t, "CategoryTotals[Cashlike]", m.CategoryTotals[Cashlike], 216000+100000)
	if v, ok := m.CategoryTotals[Other]; !ok || v != 0 {
		t.Errorf("CategoryTotals[Other] = %v, %v, want 0, true", v, ok)
	}

	wantBeta := (1*120000.0 + 3*18000 + 0.2*216000) / (stocks + 100000)
	assertNear(t, "PortfolioBeta", m.PortfolioBeta, wantBeta)

	var sum float64
	for _, c := range Categories {
		sum += m.CategoryWeight(c)
	}
	assertNear(t, "Σ CategoryWeight", sum, 100)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil, nil, nil, nil, DefaultRates())
	if m.PortfolioBeta != 0 || m.TotalAssets != 0 || m.NetWorth != 0 {
		t.Errorf("Aggregate(empty) = %+v, want zeros", m)
	}
	if got := m.Allocation(123); got != 0 {
		t.Errorf("Allocation() with no assets = %v, want 0", got)
	}
	if len(m.CategoryTotals) != 4 {
		t.Errorf("CategoryTotals has %d buckets, want 4", len(m.CategoryTotals))
	}
}

func TestAggregate_ClosedPositionsOnlyRealize(t *testing.T) {
	txs := []Transaction{
		tx("2025-01-01", Buy, "AAPL", 10, 100, "USD"),
		tx("2025-01-02", Sell, "AAPL", 10, 110, "USD"),
	}
	rates := Rates{"USD": 32}
	m := Aggregate(Valuate(txs, nil, nil, rates), nil, nil, nil, rates)
	assertNear(t, "RealizedPnLTWD", m.RealizedPnLTWD, 100*32)
	assertNear(t, "StockMarketValueTWD", m.StockMarketValueTWD, 0)
	assertNear(t, "TotalAssets", m.TotalAssets, 0)
}

func TestSummarizePledges_NoLoan(t *testing.T) {
	pledges := []PledgeRecord{{Symbol: "2330", Qty: 1000, LoanAmount: 0}}
	s := SummarizePledges(pledges, map[string]float64{"2330": 1000})
	if s.MaintenanceRatio != 0 {
		t.Errorf("MaintenanceRatio = %v, want 0", s.MaintenanceRatio)
	}
	if got := pledges[0].MaintenanceRatio(map[string]float64{"2330": 1000}); got != 0 {
		t.Errorf("PledgeRecord.MaintenanceRatio() = %v, want 0", got)
	}
}

func TestSummarizeBank_MissingUSDRate(t *testing.T) {
	s := SummarizeBank([]BankAccount{{Bank: "X", USD: 100, TWD: 5}}, Rates{})
	assertNear(t, "TotalCashTWD", s.TotalCashTWD, 5)
}
