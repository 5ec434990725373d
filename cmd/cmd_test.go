package cmd

import (
	"testing"

	"github.com/etnz/networth"
)

func TestSuggestSymbol(t *testing.T) {
	known := []string{"0050", "00631L", "AAPL"}
	testCases := []struct {
		symbol string
		want   string
		ok     bool
	}{
		{"0050", "", false},
		{"0056", "0050", true},
		{"APL", "AAPL", true},
		{"00631", "00631L", true},
		{"TSLA", "", false},
	}
	for _, tc := range testCases {
		got, ok := suggestSymbol(known, tc.symbol)
		if got != tc.want || ok != tc.ok {
			t.Errorf("suggestSymbol(%q) = %q, %v, want %q, %v", tc.symbol, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBackupFormat(t *testing.T) {
	testCases := []struct {
		flag, name string
		want       networth.BackupFormat
		wantErr    bool
	}{
		{"", "book.yaml", networth.BackupYAML, false},
		{"", "book.json", networth.BackupJSON, false},
		{"", "", networth.BackupJSON, false},
		{"yaml", "book.json", networth.BackupYAML, false},
		{"xml", "book.json", "", true},
	}
	for _, tc := range testCases {
		got, err := backupFormat(tc.flag, tc.name)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("backupFormat(%q, %q) = %q, %v, want %q (error %v)", tc.flag, tc.name, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range Names() {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %s", name)
		}
	}
	buy := c.Sub["buy"]
	for _, f := range []string{"s", "q", "p", "d", "b", "c"} {
		if _, ok := buy.Flags[f]; !ok {
			t.Errorf("buy completion misses flag -%s", f)
		}
	}
	if got := c.Sub["overview"].Flags["offline"].Predict(""); len(got) != 0 {
		t.Errorf("bool flag -offline should predict nothing, got %q", got)
	}
	if got := c.Sub["theme"].Args.Predict(""); len(got) != 2 {
		t.Errorf("theme arguments = %q, want light and dark", got)
	}
	if _, ok := c.Flags["store"]; !ok {
		t.Errorf("global flag -store is not completed")
	}
}

func TestKnown(t *testing.T) {
	for _, name := range []string{"buy", "overview", "help", "topic"} {
		if !Known(name) {
			t.Errorf("Known(%q) = false", name)
		}
	}
	if Known("hello") {
		t.Errorf("Known(hello) = true")
	}
}
