package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/remote"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

// txFlags are the flags shared by buy and sell.
type txFlags struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	broker   string
	currency string
}

func (c *txFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol, for instance 0050 or AAPL")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share, in the transaction currency")
	f.StringVar(&c.broker, "b", "", "Broker")
	f.StringVar(&c.currency, "c", networth.ReportingCurrency, "Currency of the price")
}

func (c *txFlags) record(ctx context.Context, f *flag.FlagSet, action networth.Action) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx, err := networth.NewTransaction(day, action, c.symbol, c.broker, c.quantity, c.price, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withBook(func(book *networth.Book) error {
		if hint, ok := suggestSymbol(networth.Symbols(book.State().Transactions), tx.Symbol); ok {
			fmt.Fprintf(os.Stderr, "Warning: %s is a new symbol, did you mean %s?\n", tx.Symbol, hint)
		}
		if err := book.Apply(networth.AddTransaction{Tx: tx}); err != nil {
			return err
		}
		fmt.Printf("Recorded %s %s %s x %s at %s %s (%s)\n", tx.Date, tx.Action.Local(), tx.Symbol,
			networth.FormatNumber(tx.Qty, 0, 4), networth.FormatMoney(tx.Price), tx.Currency, tx.ID)

		s := book.State()
		pushRemote(ctx, s, func(ctx context.Context, c *remote.Client) error {
			return c.PostTransaction(ctx, tx)
		})
		return nil
	})
}

// --- Buy Command ---

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares" }
func (*buyCmd) Usage() string {
	return `buy -s <symbol> -q <quantity> -p <price> [-d <date>] [-b <broker>] [-c <currency>]

  Records a purchase. The position's average cost absorbs the purchase.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, f, networth.Buy)
}

// --- Sell Command ---

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares" }
func (*sellCmd) Usage() string {
	return `sell -s <symbol> -q <quantity> -p <price> [-d <date>] [-b <broker>] [-c <currency>]

  Records a sale. The difference between the price and the average cost is realized.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, f, networth.Sell)
}

// --- Remove Command ---

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions by ID" }
func (*rmCmd) Usage() string {
	return `rm <id>...

  Deletes transactions from the local book. IDs are listed by 'nw tx'.
  The remote sheet is left untouched.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var cmds []networth.Command
	for _, id := range f.Args() {
		cmds = append(cmds, networth.DeleteTransaction{ID: id})
	}
	return withBook(func(book *networth.Book) error {
		if err := book.Apply(cmds...); err != nil {
			return err
		}
		fmt.Printf("Deleted %d transaction(s)\n", len(cmds))
		return nil
	})
}

// --- List Command ---

type txCmd struct {
	symbol string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `tx [-s <symbol>]

  Lists the transactions, newest first.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list the transactions of this symbol")
}

func (c *txCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(func(book *networth.Book) error {
		s := book.State()
		printMarkdown(renderer.RenderTransactions(renderer.NewTransactionList(s, c.symbol)), s.Theme)
		return nil
	})
}
