package networth

// Epsilon is the inventory below which a position is considered closed.
const Epsilon = 1e-6

// Position is the valuation of a single symbol, derived from the whole
// transaction history. It is never stored.
//
// Amounts are in the position's own currency unless suffixed with TWD.
type Position struct {
	Symbol   string   `json:"symbol"`
	Currency string   `json:"currency"`
	Beta     float64  `json:"beta"`
	Category Category `json:"category"`

	Inventory   float64 `json:"inventory"`
	TotalCost   float64 `json:"totalCost"`
	AvgCost     float64 `json:"avgCost"`
	TotalBuyQty float64 `json:"totalBuyQty"`
	TotalBuyAmt float64 `json:"totalBuyAmt"`
	SoldQty     float64 `json:"soldQty"`
	RealizedPnL float64 `json:"realizedPnL"`

	CurrentPrice     float64 `json:"currentPrice"`
	MarketValue      float64 `json:"marketValue"`
	MarketValueTWD   float64 `json:"marketValueTWD"`
	UnrealizedPnL    float64 `json:"unrealizedPnL"`
	UnrealizedPnLTWD float64 `json:"unrealizedPnLTWD"`
	ROI              float64 `json:"roi"`
}

// IsOpen reports whether the position still holds some inventory.
func (p Position) IsOpen() bool { return p.Inventory > Epsilon }

// RealizedPnLTWD converts the realized P&L with the given rates.
func (p Position) RealizedPnLTWD(rates Rates) float64 { return p.RealizedPnL * rates.Of(p.Currency) }

// CostTWD converts the remaining cost basis with the given rates.
func (p Position) CostTWD(rates Rates) float64 { return p.TotalCost * rates.Of(p.Currency) }

// TotalPnL is the realized plus unrealized P&L, in the position currency.
func (p Position) TotalPnL() float64 { return p.RealizedPnL + p.UnrealizedPnL }

// buy adds q units bought at price.
func (p *Position) buy(q, price float64) {
	p.Inventory += q
	p.TotalCost += q * price
	p.TotalBuyQty += q
	p.TotalBuyAmt += q * price
	if p.Inventory > 0 {
		p.AvgCost = p.TotalCost / p.Inventory
	}
}

// sell removes q units sold at price, realizing the difference with the
// average cost.
//
// Once the inventory drops to Epsilon or below the position is flat: the
// residual inventory and cost are reset. Overselling is absorbed the same
// way, the excess quantity is forgotten.
func (p *Position) sell(q, price float64) {
	costBasis := p.AvgCost * q
	p.RealizedPnL += price*q - costBasis
	p.Inventory -= q
	p.TotalCost -= costBasis
	p.SoldQty += q
	if p.Inventory <= Epsilon {
		p.Inventory = 0
		p.TotalCost = 0
		p.AvgCost = 0
	}
}

// mark values the position at the latest price, falling back to the average
// cost when no price is known.
func (p *Position) mark(prices map[string]float64, rates Rates) {
	p.CurrentPrice = p.AvgCost
	if price, ok := prices[p.Symbol]; ok {
		p.CurrentPrice = price
	}
	p.MarketValue = p.Inventory * p.CurrentPrice
	p.UnrealizedPnL = p.MarketValue - p.TotalCost
	p.ROI = 0
	if p.TotalCost > 0 {
		p.ROI = p.UnrealizedPnL / p.TotalCost * 100
	}
	rate := rates.Of(p.Currency)
	p.MarketValueTWD = p.MarketValue * rate
	p.UnrealizedPnLTWD = p.UnrealizedPnL * rate
}

// Valuate folds the transaction log into one Position per symbol.
//
// Transactions are replayed by date, equal dates in log order, with a single
// weighted-average cost basis per symbol. A symbol's currency and beta are
// fixed by its first transaction in that order. Every symbol ever traded gets
// a Position, closed ones included, in order of first appearance.
//
// Valuate never fails: missing prices, betas or rates fall back to defaults
// and non-finite inputs propagate into the results.
func Valuate(txs []Transaction, prices, betas map[string]float64, rates Rates) []Position {
	var positions []*Position
	bySymbol := make(map[string]*Position)

	for _, tx := range SortByDate(txs) {
		p, ok := bySymbol[tx.Symbol]
		if !ok {
			beta := BetaOf(betas, tx.Symbol)
			p = &Position{
				Symbol:   tx.Symbol,
				Currency: tx.Currency,
				Beta:     beta,
				Category: Classify(beta),
			}
			bySymbol[tx.Symbol] = p
			positions = append(positions, p)
		}
		switch tx.Action {
		case Sell:
			p.sell(tx.Qty, tx.Price)
		default:
			p.buy(tx.Qty, tx.Price)
		}
	}

	result := make([]Position, 0, len(positions))
	for _, p := range positions {
		p.mark(prices, rates)
		result = append(result, *p)
	}
	return result
}

// OpenPositions returns the positions still holding inventory.
func OpenPositions(positions []Position) []Position {
	var open []Position
	for _, p := range positions {
		if p.IsOpen() {
			open = append(open, p)
		}
	}
	return open
}

// ClosedPositions returns the positions fully sold.
func ClosedPositions(positions []Position) []Position {
	var closed []Position
	for _, p := range positions {
		if !p.IsOpen() {
			closed = append(closed, p)
		}
	}
	return closed
}
