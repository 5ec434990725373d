package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/networth"
	"github.com/google/subcommands"
)

// --- Rate Command ---

type rateCmd struct {
	mode    string
	refresh bool
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show or set exchange rates" }
func (*rateCmd) Usage() string {
	return `rate [-mode auto|manual] [-refresh] [<currency> <rate>]

  Without arguments, lists the TWD value of one unit of each currency.

  <currency> <rate> sets a rate by hand. -refresh fetches the USD rate now.
  In auto mode the USD rate is also refreshed before every overview.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "", "Set the USD rate mode, auto or manual")
	f.BoolVar(&c.refresh, "refresh", false, "Fetch the USD rate now")
}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var cmds []networth.Command
	if c.mode != "" {
		mode, err := networth.ParseRateMode(c.mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		cmds = append(cmds, networth.SetRateMode{Mode: mode})
	}
	switch f.NArg() {
	case 0:
	case 2:
		rate, err := strconv.ParseFloat(f.Arg(1), 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
			return subcommands.ExitUsageError
		}
		cmds = append(cmds, networth.SetRate{Currency: f.Arg(0), Rate: rate})
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}

	return withBook(func(book *networth.Book) error {
		if err := book.Apply(cmds...); err != nil {
			return err
		}
		if c.refresh {
			if _, err := refreshRate(ctx, book); err != nil {
				return err
			}
		}
		s := book.State()
		fmt.Printf("Rate mode: %s\n", s.RateMode)
		for _, cur := range slices.Sorted(maps.Keys(s.Rates)) {
			fmt.Printf("%s\t%s\n", cur, networth.FormatNumber(s.Rates[cur], 0, 4))
		}
		return nil
	})
}

// --- Sync Command ---

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "download the book from the remote sheet" }
func (*syncCmd) Usage() string {
	return `sync

  Downloads transactions, prices, betas, bank balances and pledges from the
  remote sheet. Sections present on the sheet replace the local ones, prices
  and betas are merged symbol by symbol.
`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(func(book *networth.Book) error {
		imp, err := syncBook(ctx, book)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d transaction(s), %d price(s), %d bank account(s), %d pledge(s)\n",
			len(imp.Transactions), len(imp.Prices), len(imp.Bank), len(imp.Pledges))
		return nil
	})
}

// --- Endpoint Command ---

type endpointCmd struct {
	clear bool
}

func (*endpointCmd) Name() string     { return "endpoint" }
func (*endpointCmd) Synopsis() string { return "show or set the remote sheet endpoint" }
func (*endpointCmd) Usage() string {
	return `endpoint [-clear | <url>]

  Shows or sets the URL of the remote sheet. Once set, manual changes are
  sent to the sheet and 'nw sync' downloads it.
`
}

func (c *endpointCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "Forget the endpoint")
}

func (c *endpointCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 || (c.clear && f.NArg() > 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withBook(func(book *networth.Book) error {
		if c.clear || f.NArg() == 1 {
			if err := book.Apply(networth.SetEndpoint{URL: f.Arg(0)}); err != nil {
				return err
			}
		}
		if url := book.State().Endpoint; url != "" {
			fmt.Println(url)
		} else {
			fmt.Println("No endpoint.")
		}
		return nil
	})
}

// --- Theme Command ---

type themeCmd struct{}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show or set the display theme" }
func (*themeCmd) Usage() string {
	return `theme [light|dark]

  Shows or sets the theme used to print reports.
`
}

func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (*themeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withBook(func(book *networth.Book) error {
		if f.NArg() == 1 {
			theme, err := networth.ParseTheme(f.Arg(0))
			if err != nil {
				return err
			}
			if err := book.Apply(networth.SetTheme{Theme: theme}); err != nil {
				return err
			}
		}
		fmt.Println(book.State().Theme)
		return nil
	})
}

// --- Clear Command ---

type clearCmd struct {
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "erase the local book" }
func (*clearCmd) Usage() string {
	return `clear -yes

  Erases transactions, prices, betas, bank accounts, pledges and rates.
  The endpoint, the rate mode and the theme are kept. The remote sheet is
  left untouched.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the erase")
}

func (c *clearCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: clear erases the whole book, confirm with -yes")
		return subcommands.ExitUsageError
	}
	return withBook(func(book *networth.Book) error {
		if err := book.Apply(networth.Clear{}); err != nil {
			return err
		}
		fmt.Println("Book cleared.")
		return nil
	})
}

// --- Export Command ---

type exportCmd struct {
	output string
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a backup of the whole book" }
func (*exportCmd) Usage() string {
	return `export [-o <file>] [-f json|yaml]

  Writes the whole book as a single document, to stdout by default. The
  format follows the file extension unless -f is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
	f.StringVar(&c.format, "f", "", "Format, json or yaml")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := backupFormat(c.format, c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(func(book *networth.Book) error {
		if c.output == "" {
			return networth.EncodeBackup(os.Stdout, book.State(), format)
		}
		out, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := networth.EncodeBackup(out, book.State(), format); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}

// --- Import Command ---

type importCmd struct {
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore the whole book from a backup" }
func (*importCmd) Usage() string {
	return `import [-f json|yaml] <file>

  Replaces the whole local book with a backup written by 'nw export'.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "", "Format, json or yaml. Defaults to the file extension")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	format, err := backupFormat(c.format, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	in, err := os.Open(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening backup: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	s, err := networth.DecodeBackup(in, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup: %v\n", err)
		return subcommands.ExitFailure
	}
	return withBook(func(book *networth.Book) error {
		if err := book.Apply(networth.Restore{State: s}); err != nil {
			return err
		}
		fmt.Printf("Restored %d transaction(s) from %s\n", len(s.Transactions), name)
		return nil
	})
}

// backupFormat returns the format named by flagValue, or the one of the file
// name when flagValue is empty.
func backupFormat(flagValue, name string) (networth.BackupFormat, error) {
	switch networth.BackupFormat(flagValue) {
	case networth.BackupJSON, networth.BackupYAML:
		return networth.BackupFormat(flagValue), nil
	case "":
		return networth.BackupFormatOf(name), nil
	}
	return "", fmt.Errorf("unknown backup format %q, want json or yaml", flagValue)
}

// --- Price Command ---

type priceCmd struct {
	beta float64
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show or set prices and betas" }
func (*priceCmd) Usage() string {
	return `price [-beta <beta>] [<symbol> [<price>]]

  Without arguments, lists the known prices and betas.

  Otherwise sets the price of a symbol, its beta with -beta, or both. Sync
  overwrites them with the sheet's values.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.beta, "beta", math.NaN(), "Beta of the symbol")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 2 || (f.NArg() == 1 && math.IsNaN(c.beta)) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var md networth.MergeMarketData
	if f.NArg() > 0 {
		symbol := strings.ToUpper(strings.TrimSpace(f.Arg(0)))
		if f.NArg() == 2 {
			price, err := strconv.ParseFloat(f.Arg(1), 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
				return subcommands.ExitUsageError
			}
			md.Prices = map[string]float64{symbol: price}
		}
		if !math.IsNaN(c.beta) {
			md.Betas = map[string]float64{symbol: c.beta}
		}
	}
	return withBook(func(book *networth.Book) error {
		if err := book.Apply(md); err != nil {
			return err
		}
		s := book.State()
		symbols := slices.Sorted(maps.Keys(s.Prices))
		for sym := range s.Betas {
			if _, ok := s.Prices[sym]; !ok {
				symbols = append(symbols, sym)
			}
		}
		slices.Sort(symbols)
		for _, sym := range symbols {
			beta := networth.BetaOf(s.Betas, sym)
			fmt.Printf("%s\t%s\tβ %s\t%s\n", sym, networth.FormatMoney(s.Prices[sym]),
				networth.FormatNumber(beta, 2, 2), networth.Classify(beta))
		}
		return nil
	})
}
