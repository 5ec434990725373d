package networth

import (
	"fmt"
	"strings"

	"github.com/etnz/networth/date"
)

const (
	// DefaultPledgeBroker is the lender used when none is given.
	DefaultPledgeBroker = "元大證金"
	// DefaultPledgeRate is the annual rate in percent used when none is given.
	DefaultPledgeRate = 2.48
	// PledgeTermMonths is the standard term of a pledge loan.
	PledgeTermMonths = 6
)

// Maintenance ratio thresholds, in percent.
const (
	MarginCallRatio = 130
	WarningRatio    = 140
	SafeRatio       = 166
)

// PledgeRecord is a loan secured by pledged shares.
//
// CollateralValue is frozen when the pledge is recorded, while the live
// collateral value is always recomputed from current prices.
type PledgeRecord struct {
	TransferDate    date.Date `json:"transferDate" yaml:"transferDate"`
	Symbol          string    `json:"symbol" yaml:"symbol"`
	Qty             float64   `json:"qty" yaml:"qty"`
	Broker          string    `json:"broker" yaml:"broker"`
	CollateralValue float64   `json:"collateralValue" yaml:"collateralValue"`
	LoanDate        date.Date `json:"loanDate" yaml:"loanDate"`
	LoanAmount      float64   `json:"loanAmount" yaml:"loanAmount"`
	Rate            float64   `json:"rate" yaml:"rate"` // annual, as a fraction
	RepaymentDate   date.Date `json:"repaymentDate" yaml:"repaymentDate"`
	Interest        *float64  `json:"interest,omitempty" yaml:"interest,omitempty"`
}

// PledgeRequest is what a user types to record a pledge.
type PledgeRequest struct {
	TransferDate date.Date
	Symbol       string
	Qty          float64
	Broker       string
	LoanDate     date.Date
	LoanAmount   float64
	RatePercent  float64
}

// RepaymentDate returns the end of a pledge term starting on loan: six
// months later, minus one day.
func RepaymentDate(loan date.Date) date.Date {
	return loan.AddMonths(PledgeTermMonths).Add(-1)
}

// NewPledge builds the record for req, valuing the collateral at prices.
func NewPledge(req PledgeRequest, prices map[string]float64) (PledgeRecord, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return PledgeRecord{}, ErrInvalidSymbol
	}
	if !(req.Qty > 0) {
		return PledgeRecord{}, fmt.Errorf("%w: got %v", ErrInvalidQuantity, req.Qty)
	}
	if !(req.LoanAmount >= 0) {
		return PledgeRecord{}, fmt.Errorf("invalid loan amount %v", req.LoanAmount)
	}
	if req.Broker == "" {
		req.Broker = DefaultPledgeBroker
	}
	if req.RatePercent == 0 {
		req.RatePercent = DefaultPledgeRate
	}
	today := date.Today()
	if req.TransferDate.IsZero() {
		req.TransferDate = today
	}
	if req.LoanDate.IsZero() {
		req.LoanDate = today
	}
	return PledgeRecord{
		TransferDate:    req.TransferDate,
		Symbol:          symbol,
		Qty:             req.Qty,
		Broker:          req.Broker,
		CollateralValue: req.Qty * prices[symbol],
		LoanDate:        req.LoanDate,
		LoanAmount:      req.LoanAmount,
		Rate:            req.RatePercent / 100,
		RepaymentDate:   RepaymentDate(req.LoanDate),
	}, nil
}

// LiveCollateral is the current value of the pledged shares, 0 when unpriced.
func (p PledgeRecord) LiveCollateral(prices map[string]float64) float64 {
	return p.Qty * prices[p.Symbol]
}

// MaintenanceRatio is the live collateral over the loan, in percent, or 0
// without a loan.
func (p PledgeRecord) MaintenanceRatio(prices map[string]float64) float64 {
	return maintenanceRatio(p.LiveCollateral(prices), p.LoanAmount)
}

func maintenanceRatio(collateral, loan float64) float64 {
	if loan > 0 {
		return collateral / loan * 100
	}
	return 0
}

// RatioStatus qualifies a maintenance ratio.
type RatioStatus string

const (
	RatioDanger  RatioStatus = "danger"
	RatioWarning RatioStatus = "warning"
	RatioSafe    RatioStatus = "safe"
)

// StatusOf returns the status of a maintenance ratio: danger under
// WarningRatio, warning under SafeRatio, safe otherwise.
func StatusOf(ratio float64) RatioStatus {
	switch {
	case ratio < WarningRatio:
		return RatioDanger
	case ratio < SafeRatio:
		return RatioWarning
	default:
		return RatioSafe
	}
}
