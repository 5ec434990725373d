package networth

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/networth/date"
)

// Action is the side of a transaction.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// ParseAction reads the action column of the remote sheet.
//
// Only "賣", "SELL" and "S", exactly, are Sell. Anything else, "sell" or
// " S " included, is Buy.
func ParseAction(s string) Action {
	switch s {
	case "賣", "SELL", "S":
		return Sell
	}
	return Buy
}

// Local returns the word used by the remote sheet for a.
func (a Action) Local() string {
	if a == Sell {
		return "賣"
	}
	return "買"
}

// Transaction is an immutable buy or sell event.
type Transaction struct {
	ID       string    `json:"id" yaml:"id"`
	Date     date.Date `json:"date" yaml:"date"`
	Action   Action    `json:"action" yaml:"action"`
	Symbol   string    `json:"symbol" yaml:"symbol"`
	Broker   string    `json:"broker" yaml:"broker"`
	Qty      float64   `json:"qty" yaml:"qty"`
	Price    float64   `json:"price" yaml:"price"`
	Currency string    `json:"currency" yaml:"currency"`
}

var (
	ErrInvalidSymbol   = errors.New("symbol is required")
	ErrInvalidQuantity = errors.New("quantity must be strictly positive")
	ErrInvalidPrice    = errors.New("price must be strictly positive")
	ErrInvalidCurrency = errors.New("unknown currency")
)

// NewTransaction creates a validated transaction with a fresh ID.
//
// The symbol and currency are upper-cased, an empty currency is TWD.
func NewTransaction(on date.Date, action Action, symbol, broker string, qty, price float64, currency string) (Transaction, error) {
	tx := Transaction{
		ID:       NewID(),
		Date:     on,
		Action:   action,
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Broker:   strings.TrimSpace(broker),
		Qty:      qty,
		Price:    price,
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
	if tx.Currency == "" {
		tx.Currency = ReportingCurrency
	}
	if tx.Date.IsZero() {
		tx.Date = date.Today()
	}
	return tx, tx.Validate()
}

// Validate checks a manually entered transaction.
//
// Imported transactions are never validated: whatever the remote sheet holds
// is what the book values.
func (tx Transaction) Validate() error {
	if tx.Symbol == "" {
		return ErrInvalidSymbol
	}
	if !(tx.Qty > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidQuantity, tx.Qty)
	}
	if !(tx.Price > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidPrice, tx.Price)
	}
	if !KnownCurrency(tx.Currency) {
		return fmt.Errorf("%w %q", ErrInvalidCurrency, tx.Currency)
	}
	return nil
}

// Amount is the gross value of the transaction in its own currency.
func (tx Transaction) Amount() float64 { return tx.Qty * tx.Price }

// SortByDate returns a copy of txs sorted by date, equal dates keeping their
// relative order.
func SortByDate(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})
	return sorted
}

// Symbols returns the distinct symbols of txs in order of first appearance.
func Symbols(txs []Transaction) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, tx := range txs {
		if !seen[tx.Symbol] {
			seen[tx.Symbol] = true
			symbols = append(symbols, tx.Symbol)
		}
	}
	return symbols
}
