package networth

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/google/go-cmp/cmp"
)

func openTestBook(t *testing.T, st *memStorage) *Book {
	t.Helper()
	b, err := OpenBook(st)
	if err != nil {
		t.Fatalf("OpenBook() error = %v", err)
	}
	return b
}

func TestBook_Defaults(t *testing.T) {
	b := openTestBook(t, newMemStorage())
	s := b.State()
	if diff := cmp.Diff(DefaultRates(), s.Rates); diff != "" {
		t.Errorf("default rates mismatch (-want +got):\n%s", diff)
	}
	if s.RateMode != Auto || s.Theme != Light || s.Endpoint != "" {
		t.Errorf("defaults = {%v %v %q}, want {auto light \"\"}", s.RateMode, s.Theme, s.Endpoint)
	}
}

func TestBook_AddAndDeleteTransaction(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)

	first := tx("2025-01-01", Buy, "A", 1, 10, "TWD")
	second := tx("2025-01-02", Buy, "B", 1, 10, "TWD")
	if err := b.Apply(AddTransaction{first}, AddTransaction{second}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := b.State().Transactions
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("transactions = %v, want newest first", got)
	}

	if err := b.Apply(DeleteTransaction{first.ID}); err != nil {
		t.Fatalf("DeleteTransaction error = %v", err)
	}
	if got := b.State().Transactions; len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("after delete = %v, want only %s", got, second.ID)
	}
	if err := b.Apply(DeleteTransaction{"missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTransaction(missing) error = %v, want %v", err, ErrNotFound)
	}

	// Reopening gives the same log.
	reopened := openTestBook(t, st)
	if diff := cmp.Diff(b.State().Transactions, reopened.State().Transactions); diff != "" {
		t.Errorf("reloaded transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_OnlyChangedSlotsAreSaved(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)
	if err := b.Apply(SetEndpoint{"https://example.com/exec"}); err != nil {
		t.Fatal(err)
	}
	if st.saves != 1 {
		t.Errorf("saves = %d, want 1", st.saves)
	}
	if got, want := string(st.slots[KeyEndpoint]), `"https://example.com/exec"`; got != want {
		t.Errorf("endpoint slot = %s, want %s", got, want)
	}
	// No change, no save.
	if err := b.Apply(SetEndpoint{"https://example.com/exec"}); err != nil {
		t.Fatal(err)
	}
	if st.saves != 1 {
		t.Errorf("saves = %d after a no-op, want 1", st.saves)
	}
}

func TestBook_RollbackOnStorageFailure(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)
	before := b.State()

	st.failOn = KeyBank
	err := b.Apply(SetBank{BankAccount{Bank: "台銀", TWD: 100}})
	if err == nil {
		t.Fatal("Apply() succeeded, want a storage error")
	}
	if diff := cmp.Diff(before, b.State()); diff != "" {
		t.Errorf("state changed after a failed Apply (-before +after):\n%s", diff)
	}
}

func TestBook_RollbackOnCommandFailure(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)
	saved := st.snapshot()

	err := b.Apply(SetRate{"USD", 31}, SetRate{"TWD", 2})
	if !errors.Is(err, ErrReportingRate) {
		t.Fatalf("Apply() error = %v, want %v", err, ErrReportingRate)
	}
	if got := b.State().Rates["USD"]; got != 32.5 {
		t.Errorf("USD rate = %v, want untouched 32.5", got)
	}
	if diff := cmp.Diff(saved, st.snapshot()); diff != "" {
		t.Errorf("storage changed after a failed Apply (-before +after):\n%s", diff)
	}
}

func TestBook_EditBankField(t *testing.T) {
	b := openTestBook(t, newMemStorage())
	cmds := []Command{
		EditBankField{Bank: "國泰", Field: FieldTWD, Text: "1,500,000"},
		EditBankField{Bank: "國泰", Field: FieldUSD, Text: "oops"},
		EditBankField{Bank: "國泰", Field: FieldLoan, Text: "200"},
		EditBankField{Bank: "國泰", Field: FieldLoan, Text: "300"},
	}
	if err := b.Apply(cmds...); err != nil {
		t.Fatal(err)
	}
	want := []BankAccount{{Bank: "國泰", TWD: 1500000, USD: 0, Loan: 300}}
	if diff := cmp.Diff(want, b.State().Bank); diff != "" {
		t.Errorf("bank mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_Import(t *testing.T) {
	b := openTestBook(t, newMemStorage())
	local := tx("2025-01-01", Buy, "LOCAL", 1, 1, "TWD")
	setup := []Command{
		AddTransaction{local},
		MergeMarketData{Prices: map[string]float64{"KEEP": 1, "OVER": 1}, Betas: map[string]float64{"KEEP": 0.2}},
		SetBank{BankAccount{Bank: "OLD", TWD: 1}},
		AddPledge{PledgeRecord{Symbol: "OLD", Qty: 1}},
	}
	if err := b.Apply(setup...); err != nil {
		t.Fatal(err)
	}

	rate := 31.2
	remote := tx("2025-02-01", Sell, "REMOTE", 1, 1, "USD")
	err := b.Apply(Import{
		Transactions: []Transaction{remote},
		Prices:       map[string]float64{"OVER": 2, "NEW": 3},
		Bank:         []BankAccount{},
		USDRate:      &rate,
	})
	if err != nil {
		t.Fatal(err)
	}
	s := b.State()
	if len(s.Transactions) != 1 || s.Transactions[0].ID != remote.ID {
		t.Errorf("transactions = %v, want replaced by the remote one", s.Transactions)
	}
	if diff := cmp.Diff(map[string]float64{"KEEP": 1, "OVER": 2, "NEW": 3}, s.Prices); diff != "" {
		t.Errorf("prices not merged (-want +got):\n%s", diff)
	}
	if s.Betas["KEEP"] != 0.2 {
		t.Errorf("betas = %v, want untouched", s.Betas)
	}
	if len(s.Bank) != 0 {
		t.Errorf("bank = %v, want replaced by an empty list", s.Bank)
	}
	if len(s.Pledges) != 1 {
		t.Errorf("pledges = %v, want untouched when absent", s.Pledges)
	}
	if s.Rates["USD"] != 31.2 {
		t.Errorf("USD = %v, want 31.2", s.Rates["USD"])
	}
}

func TestBook_Clear(t *testing.T) {
	b := openTestBook(t, newMemStorage())
	err := b.Apply(
		AddTransaction{tx("2025-01-01", Buy, "A", 1, 1, "TWD")},
		SetRate{"USD", 40},
		SetEndpoint{"https://example.com"},
		SetRateMode{Manual},
		SetTheme{Dark},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Apply(Clear{}); err != nil {
		t.Fatal(err)
	}
	s := b.State()
	if len(s.Transactions) != 0 || s.Rates["USD"] != 32.5 {
		t.Errorf("Clear() left %v transactions and USD=%v", len(s.Transactions), s.Rates["USD"])
	}
	if s.Endpoint != "https://example.com" || s.RateMode != Manual || s.Theme != Dark {
		t.Errorf("Clear() reset settings: %q %v %v", s.Endpoint, s.RateMode, s.Theme)
	}
}

func TestBook_NaNIsNotPersisted(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)
	bad := tx("2025-01-01", Buy, "A", math.NaN(), 10, "TWD")
	if err := b.Apply(Import{Transactions: []Transaction{bad}}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// in memory the value propagates.
	if got := b.State().Transactions[0].Qty; !math.IsNaN(got) {
		t.Errorf("in-memory qty = %v, want NaN", got)
	}
	if !bytes.Contains(st.slots[KeyTransactions], []byte(`"qty":0`)) {
		t.Errorf("persisted slot = %s, want qty written as 0", st.slots[KeyTransactions])
	}
}

func TestBook_RoundTrip(t *testing.T) {
	st := newMemStorage()
	b := openTestBook(t, st)
	interest := 1234.5
	cmds := []Command{
		AddTransaction{tx("2025-01-01", Buy, "AAPL", 1.5, 180.25, "USD")},
		SetBank{BankAccount{Bank: "台銀", USD: 10, TWD: 20, Loan: 30}},
		AddPledge{PledgeRecord{
			TransferDate: date.New(2025, 1, 2), Symbol: "2330", Qty: 1000, Broker: "元大證金",
			CollateralValue: 1e6, LoanDate: date.New(2025, 1, 3), LoanAmount: 5e5, Rate: 0.0248,
			RepaymentDate: date.New(2025, 7, 2), Interest: &interest,
		}},
		SetRate{"JPY", 0.21},
		SetRateMode{Manual},
		SetTheme{Dark},
		SetEndpoint{"https://script.example/exec"},
		MergeMarketData{Prices: map[string]float64{"AAPL": 190}, Betas: map[string]float64{"AAPL": 1.2}},
	}
	if err := b.Apply(cmds...); err != nil {
		t.Fatal(err)
	}
	reopened := openTestBook(t, st)
	if diff := cmp.Diff(b.State(), reopened.State()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}
