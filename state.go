package networth

import (
	"maps"
	"slices"
)

// State is a snapshot of every slot of the book.
//
// A State obtained from a Book is a private copy: it can be read and valued
// freely, changes to it are never persisted.
type State struct {
	Transactions []Transaction      `json:"transactions" yaml:"transactions"`
	Prices       map[string]float64 `json:"prices" yaml:"prices"`
	Betas        map[string]float64 `json:"betas" yaml:"betas"`
	Bank         []BankAccount      `json:"bank" yaml:"bank"`
	Pledges      []PledgeRecord     `json:"pledges" yaml:"pledges"`
	Endpoint     string             `json:"endpoint" yaml:"endpoint"`
	Rates        Rates              `json:"rates" yaml:"rates"`
	RateMode     RateMode           `json:"rateMode" yaml:"rateMode"`
	Theme        Theme              `json:"theme" yaml:"theme"`
}

// NewState returns the state of an empty book.
func NewState() *State {
	return &State{
		Transactions: []Transaction{},
		Prices:       map[string]float64{},
		Betas:        map[string]float64{},
		Bank:         []BankAccount{},
		Pledges:      []PledgeRecord{},
		Rates:        DefaultRates(),
		RateMode:     Auto,
		Theme:        Light,
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Transactions = slices.Clone(s.Transactions)
	c.Prices = maps.Clone(s.Prices)
	c.Betas = maps.Clone(s.Betas)
	c.Bank = slices.Clone(s.Bank)
	c.Pledges = make([]PledgeRecord, len(s.Pledges))
	for i, p := range s.Pledges {
		if p.Interest != nil {
			v := *p.Interest
			p.Interest = &v
		}
		c.Pledges[i] = p
	}
	c.Rates = s.Rates.Clone()
	c.normalize()
	return &c
}

// normalize replaces missing slots by their empty value.
func (s *State) normalize() {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Prices == nil {
		s.Prices = map[string]float64{}
	}
	if s.Betas == nil {
		s.Betas = map[string]float64{}
	}
	if s.Bank == nil {
		s.Bank = []BankAccount{}
	}
	if s.Pledges == nil {
		s.Pledges = []PledgeRecord{}
	}
	if s.Rates == nil {
		s.Rates = DefaultRates()
	}
	if s.RateMode == "" {
		s.RateMode = Auto
	}
	if s.Theme == "" {
		s.Theme = Light
	}
}

// Positions values the transaction log against the state's reference data.
func (s *State) Positions() []Position {
	return Valuate(s.Transactions, s.Prices, s.Betas, s.Rates)
}

// Metrics aggregates positions, obtained from s.Positions(), with the rest of
// the state.
func (s *State) Metrics(positions []Position) Metrics {
	return Aggregate(positions, s.Bank, s.Pledges, s.Prices, s.Rates)
}

// FindTransaction returns the transaction with the given ID.
func (s *State) FindTransaction(id string) (Transaction, bool) {
	for _, tx := range s.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}
