package networth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Command is a change to the book, applied by Book.Apply.
type Command interface {
	apply(*State) error
}

// ErrNotFound is returned when a command targets a record that does not exist.
var ErrNotFound = errors.New("not found")

// AddTransaction records a new transaction at the top of the log.
type AddTransaction struct{ Tx Transaction }

func (c AddTransaction) apply(s *State) error {
	if c.Tx.ID == "" {
		return errors.New("transaction has no id")
	}
	s.Transactions = append([]Transaction{c.Tx}, s.Transactions...)
	return nil
}

// DeleteTransaction removes the transaction with the given ID.
type DeleteTransaction struct{ ID string }

func (c DeleteTransaction) apply(s *State) error {
	i := slices.IndexFunc(s.Transactions, func(tx Transaction) bool { return tx.ID == c.ID })
	if i < 0 {
		return fmt.Errorf("transaction %q: %w", c.ID, ErrNotFound)
	}
	s.Transactions = slices.Delete(s.Transactions, i, i+1)
	return nil
}

// SetBank replaces the account with the same bank name, or adds it.
type SetBank struct{ Account BankAccount }

func (c SetBank) apply(s *State) error {
	if strings.TrimSpace(c.Account.Bank) == "" {
		return errors.New("bank name is required")
	}
	s.Bank = upsertBank(s.Bank, c.Account)
	return nil
}

// EditBankField sets one balance of a bank from typed text.
//
// The text is parsed with ParseAmount, so "1,234" is 1234 and garbage is 0.
type EditBankField struct {
	Bank  string
	Field BankField
	Text  string
}

func (c EditBankField) apply(s *State) error {
	acct := findBank(s.Bank, c.Bank).With(c.Field, ParseAmount(c.Text))
	return SetBank{acct}.apply(s)
}

// AddPledge appends a pledge record.
type AddPledge struct{ Pledge PledgeRecord }

func (c AddPledge) apply(s *State) error {
	s.Pledges = append(s.Pledges, c.Pledge)
	return nil
}

// SetRate sets the TWD value of one unit of Currency.
type SetRate struct {
	Currency string
	Rate     float64
}

func (c SetRate) apply(s *State) error {
	cur := strings.ToUpper(strings.TrimSpace(c.Currency))
	if err := checkRate(cur, c.Rate); err != nil {
		return err
	}
	s.Rates[cur] = c.Rate
	return nil
}

// SetRateMode switches between manual and automatic USD rates.
type SetRateMode struct{ Mode RateMode }

func (c SetRateMode) apply(s *State) error {
	if _, err := ParseRateMode(string(c.Mode)); err != nil {
		return err
	}
	s.RateMode = c.Mode
	return nil
}

// MergeMarketData overwrites prices and betas key by key, leaving other
// symbols alone.
type MergeMarketData struct {
	Prices map[string]float64
	Betas  map[string]float64
}

func (c MergeMarketData) apply(s *State) error {
	for k, v := range c.Prices {
		s.Prices[k] = v
	}
	for k, v := range c.Betas {
		s.Betas[k] = v
	}
	return nil
}

// Import applies the result of a remote sync.
//
// Nil sections are absent from the remote and left alone. Present lists
// replace the local ones entirely, even when empty, while prices and betas
// are merged.
type Import struct {
	Transactions []Transaction
	Bank         []BankAccount
	Pledges      []PledgeRecord
	Prices       map[string]float64
	Betas        map[string]float64
	// USDRate is the USD/TWD rate published by the sheet, if any.
	USDRate *float64
}

func (c Import) apply(s *State) error {
	if c.Transactions != nil {
		s.Transactions = slices.Clone(c.Transactions)
	}
	if err := (MergeMarketData{Prices: c.Prices, Betas: c.Betas}).apply(s); err != nil {
		return err
	}
	if c.Bank != nil {
		s.Bank = slices.Clone(c.Bank)
	}
	if c.USDRate != nil {
		s.Rates["USD"] = *c.USDRate
	}
	if c.Pledges != nil {
		s.Pledges = slices.Clone(c.Pledges)
	}
	return nil
}

// SetEndpoint sets the remote sync endpoint, empty to disable it.
type SetEndpoint struct{ URL string }

func (c SetEndpoint) apply(s *State) error {
	s.Endpoint = strings.TrimSpace(c.URL)
	return nil
}

// SetTheme sets the display theme.
type SetTheme struct{ Theme Theme }

func (c SetTheme) apply(s *State) error {
	if _, err := ParseTheme(string(c.Theme)); err != nil {
		return err
	}
	s.Theme = c.Theme
	return nil
}

// Clear erases the book data: transactions, prices, betas, bank accounts,
// pledges and rates. The endpoint, rate mode and theme are kept.
type Clear struct{}

func (Clear) apply(s *State) error {
	fresh := NewState()
	fresh.Endpoint, fresh.RateMode, fresh.Theme = s.Endpoint, s.RateMode, s.Theme
	*s = *fresh
	return nil
}

// Restore replaces the whole state, typically from a backup.
type Restore struct{ State *State }

func (c Restore) apply(s *State) error {
	if c.State == nil {
		return errors.New("nothing to restore")
	}
	next := c.State.Clone()
	next.normalize()
	if r, ok := next.Rates[ReportingCurrency]; ok && r != 1 {
		return ErrReportingRate
	}
	next.Rates[ReportingCurrency] = 1
	*s = *next
	return nil
}
