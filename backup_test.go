package networth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/google/go-cmp/cmp"
)

func TestBackupFormatOf(t *testing.T) {
	testCases := map[string]BackupFormat{
		"book.yaml":     BackupYAML,
		"BOOK.YML":      BackupYAML,
		"book.json":     BackupJSON,
		"book":          BackupJSON,
		"dir/book.yaml": BackupYAML,
	}
	for name, want := range testCases {
		if got := BackupFormatOf(name); got != want {
			t.Errorf("BackupFormatOf(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestBackup_RoundTrip(t *testing.T) {
	s := NewState()
	s.Transactions = []Transaction{
		tx("2025-01-01", Buy, "AAPL", 2, 180.5, "USD"),
		tx("2025-02-01", Sell, "AAPL", 1, 200, "USD"),
	}
	s.Bank = []BankAccount{{Bank: "台銀", USD: 100, TWD: 2000, Loan: 0}}
	s.Pledges = []PledgeRecord{{
		TransferDate: date.New(2025, 3, 1), Symbol: "2330", Qty: 1000, LoanDate: date.New(2025, 3, 2),
		LoanAmount: 1e5, Rate: 0.0248, RepaymentDate: RepaymentDate(date.New(2025, 3, 2)),
	}}
	s.Prices["AAPL"] = 210
	s.Betas["AAPL"] = 1.1
	s.Rates["USD"] = 31.5
	s.Endpoint = "https://example.com/exec"
	s.Theme = Dark

	for _, format := range []BackupFormat{BackupJSON, BackupYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeBackup(&buf, s, format); err != nil {
				t.Fatalf("EncodeBackup() error = %v", err)
			}
			got, err := DecodeBackup(&buf, format)
			if err != nil {
				t.Fatalf("DecodeBackup() error = %v", err)
			}
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("backup round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeBackup_Partial(t *testing.T) {
	doc := `
theme: dark
rates:
  USD: 30
  TWD: 1
`
	s, err := DecodeBackup(strings.NewReader(doc), BackupYAML)
	if err != nil {
		t.Fatal(err)
	}
	if s.Theme != Dark || s.RateMode != Auto {
		t.Errorf("got theme %v mode %v, want dark auto", s.Theme, s.RateMode)
	}
	if diff := cmp.Diff(Rates{"USD": 30, "TWD": 1}, s.Rates); diff != "" {
		t.Errorf("rates mismatch (-want +got):\n%s", diff)
	}
	if s.Transactions == nil || len(s.Transactions) != 0 {
		t.Errorf("transactions = %#v, want empty", s.Transactions)
	}
}
