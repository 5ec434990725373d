package networth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
)

// Storage persists the slots of a book as opaque JSON documents.
//
// Load must return an error wrapping fs.ErrNotExist for a slot never saved.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// BatchStorage is implemented by storages able to save several slots at once,
// all or nothing.
type BatchStorage interface {
	Storage
	SaveAll(slots map[string][]byte) error
}

// Slot keys.
const (
	KeyTransactions = "my_transactions"
	KeyPrices       = "my_current_prices"
	KeyBetas        = "my_symbol_betas"
	KeyBank         = "my_bank_data"
	KeyPledges      = "my_pledge_data"
	KeyEndpoint     = "my_gas_url"
	KeyRates        = "my_exchange_rates"
	KeyRateMode     = "my_rate_mode"
	KeyTheme        = "theme"
)

// Keys lists every slot key, in load order.
var Keys = []string{KeyTransactions, KeyPrices, KeyBetas, KeyBank, KeyPledges, KeyEndpoint, KeyRates, KeyRateMode, KeyTheme}

// field returns a pointer to the State field backing key.
func (s *State) field(key string) any {
	switch key {
	case KeyTransactions:
		return &s.Transactions
	case KeyPrices:
		return &s.Prices
	case KeyBetas:
		return &s.Betas
	case KeyBank:
		return &s.Bank
	case KeyPledges:
		return &s.Pledges
	case KeyEndpoint:
		return &s.Endpoint
	case KeyRates:
		return &s.Rates
	case KeyRateMode:
		return &s.RateMode
	case KeyTheme:
		return &s.Theme
	}
	panic("unknown slot " + key)
}

// encodeSlots returns the JSON encoding of every slot of s.
//
// Numbers that JSON cannot carry (NaN, ±Inf) are written as 0.
func encodeSlots(s *State) (map[string][]byte, error) {
	clean := s.Clone()
	clean.finite()
	slots := make(map[string][]byte, len(Keys))
	for _, key := range Keys {
		data, err := json.Marshal(clean.field(key))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		slots[key] = data
	}
	return slots, nil
}

// LoadState reads every slot from st. Slots never saved keep their default.
func LoadState(st Storage) (*State, error) {
	s := NewState()
	for _, key := range Keys {
		data, err := st.Load(key)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", key, err)
		}
		if err := json.Unmarshal(data, s.field(key)); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	s.normalize()
	if s.Rates[ReportingCurrency] != 1 {
		s.Rates[ReportingCurrency] = 1
	}
	s.Endpoint = strings.TrimSpace(s.Endpoint)
	return s, nil
}

// finite replaces every non finite number by 0.
func (s *State) finite() {
	f := func(v *float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	for i := range s.Transactions {
		f(&s.Transactions[i].Qty)
		f(&s.Transactions[i].Price)
	}
	for i := range s.Bank {
		f(&s.Bank[i].USD)
		f(&s.Bank[i].TWD)
		f(&s.Bank[i].Loan)
	}
	for i := range s.Pledges {
		p := &s.Pledges[i]
		f(&p.Qty)
		f(&p.CollateralValue)
		f(&p.LoanAmount)
		f(&p.Rate)
		if p.Interest != nil {
			f(p.Interest)
		}
	}
	for _, m := range []map[string]float64{s.Prices, s.Betas, s.Rates} {
		for k, v := range m {
			f(&v)
			m[k] = v
		}
	}
}
