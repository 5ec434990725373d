package networth

// Category is the risk bucket of a symbol, derived from its beta.
type Category string

const (
	Cashlike  Category = "類現金" // low volatility: bond and money-market funds, cash
	Plain     Category = "原型"  // unleveraged equity
	Leveraged Category = "槓桿"  // leveraged products
	Other     Category = "其他"  // display bucket, never produced by Classify
)

// Categories lists the buckets in display order.
var Categories = []Category{Plain, Leveraged, Cashlike, Other}

// DefaultBeta is the beta assumed for a symbol without reference data.
const DefaultBeta = 1.0

const (
	cashlikeBelow  = 0.5
	leveragedAbove = 1.5
)

// Classify maps a beta to its Category.
//
// Thresholds are strict: 0.5 and 1.5 are both Plain. NaN compares false on
// both sides and falls into Plain as well.
func Classify(beta float64) Category {
	switch {
	case beta < cashlikeBelow:
		return Cashlike
	case beta > leveragedAbove:
		return Leveraged
	default:
		return Plain
	}
}

// BetaOf returns the beta recorded for symbol, or DefaultBeta.
func BetaOf(betas map[string]float64, symbol string) float64 {
	if b, ok := betas[symbol]; ok {
		return b
	}
	return DefaultBeta
}

// Rule returns a human description of the beta range for c.
func (c Category) Rule() string {
	switch c {
	case Cashlike:
		return "β < 0.5"
	case Leveraged:
		return "β > 1.5"
	case Plain:
		return "0.5 ≤ β ≤ 1.5"
	}
	return ""
}
