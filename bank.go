package networth

import (
	"fmt"
	"strconv"
	"strings"
)

// BankAccount holds the balances of one bank, keyed by its name.
type BankAccount struct {
	Bank string  `json:"bank" yaml:"bank"`
	USD  float64 `json:"usd" yaml:"usd"`
	TWD  float64 `json:"twd" yaml:"twd"`
	Loan float64 `json:"loan" yaml:"loan"`
}

// BankField names an editable column of a BankAccount.
type BankField string

const (
	FieldUSD  BankField = "usd"
	FieldTWD  BankField = "twd"
	FieldLoan BankField = "loan"
)

// ParseBankField parses a column name.
func ParseBankField(s string) (BankField, error) {
	switch f := BankField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldUSD, FieldTWD, FieldLoan:
		return f, nil
	}
	return "", fmt.Errorf("invalid bank field %q, want usd, twd or loan", s)
}

// ParseAmount parses a typed amount, ignoring thousands separators.
// Anything that is not a number is 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// With returns a copy of a with field set to v.
func (a BankAccount) With(field BankField, v float64) BankAccount {
	switch field {
	case FieldUSD:
		a.USD = v
	case FieldTWD:
		a.TWD = v
	case FieldLoan:
		a.Loan = v
	}
	return a
}

// upsertBank replaces the account named like acct, or appends it.
func upsertBank(accounts []BankAccount, acct BankAccount) []BankAccount {
	for i, a := range accounts {
		if a.Bank == acct.Bank {
			accounts[i] = acct
			return accounts
		}
	}
	return append(accounts, acct)
}

// findBank returns the account named bank, or a zero account with that name.
func findBank(accounts []BankAccount, bank string) BankAccount {
	for _, a := range accounts {
		if a.Bank == bank {
			return a
		}
	}
	return BankAccount{Bank: bank}
}
