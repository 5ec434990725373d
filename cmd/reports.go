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

// --- Overview Command ---

type overviewCmd struct {
	closed  bool
	offline bool
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "show the net worth dashboard" }
func (*overviewCmd) Usage() string {
	return `overview [-closed] [-offline]

  Shows the net worth, its breakdown by category and the open positions.

  In automatic rate mode the USD rate is refreshed first, and the remote
  sheet is synced when an endpoint is set. Use -offline to skip both.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.closed, "closed", false, "Also list the fully sold positions")
	f.BoolVar(&c.offline, "offline", false, "Do not refresh rates nor sync before reporting")
}

func (c *overviewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(func(book *networth.Book) error {
		if !c.offline {
			startupRefresh(ctx, book)
		}
		s := book.State()
		printMarkdown(renderer.RenderOverview(renderer.NewOverview(s, c.closed)), s.Theme)
		return nil
	})
}

// --- Bank Command ---

type bankCmd struct{}

func (*bankCmd) Name() string     { return "bank" }
func (*bankCmd) Synopsis() string { return "show or edit bank balances" }
func (*bankCmd) Usage() string {
	return `bank [<bank> <usd|twd|loan> <amount>]

  Without arguments, lists the bank accounts.

  Otherwise sets one balance of a bank, creating the bank if needed.
  Thousands separators are accepted, an invalid amount counts as 0.
`
}

func (*bankCmd) SetFlags(*flag.FlagSet) {}

func (*bankCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch f.NArg() {
	case 0:
		return withBook(func(book *networth.Book) error {
			s := book.State()
			printMarkdown(renderer.RenderBank(renderer.NewBankReport(s)), s.Theme)
			return nil
		})
	case 3:
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}

	name := f.Arg(0)
	field, err := networth.ParseBankField(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(func(book *networth.Book) error {
		if err := book.Apply(networth.EditBankField{Bank: name, Field: field, Text: f.Arg(2)}); err != nil {
			return err
		}
		s := book.State()
		var acct networth.BankAccount
		for _, a := range s.Bank {
			if a.Bank == name {
				acct = a
			}
		}
		fmt.Printf("%s: USD %s, TWD %s, loan %s\n", acct.Bank,
			networth.FormatMoney(acct.USD), networth.FormatMoney(acct.TWD), networth.FormatMoney(acct.Loan))
		pushRemote(ctx, s, func(ctx context.Context, c *remote.Client) error {
			return c.PostBank(ctx, acct)
		})
		return nil
	})
}

// --- Pledge Command ---

type pledgeCmd struct {
	add          bool
	symbol       string
	quantity     float64
	loan         float64
	loanDate     string
	transferDate string
	broker       string
	rate         float64
}

func (*pledgeCmd) Name() string     { return "pledge" }
func (*pledgeCmd) Synopsis() string { return "show or add pledge loans" }
func (*pledgeCmd) Usage() string {
	return `pledge [-add -s <symbol> -q <quantity> -loan <amount> [-d <loan date>] [-t <transfer date>] [-b <lender>] [-r <rate %>]]

  Without -add, lists the pledges with their live maintenance ratio.

  With -add, records a new pledge. The collateral is valued at the current
  price of the symbol, and the loan is due six months after the loan date.
`
}

func (c *pledgeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Record a new pledge")
	f.StringVar(&c.symbol, "s", "", "Pledged symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of pledged shares")
	f.Float64Var(&c.loan, "loan", 0, "Loan amount, in TWD")
	f.StringVar(&c.loanDate, "d", "", "Loan date (YYYY-MM-DD), today by default")
	f.StringVar(&c.transferDate, "t", "", "Date the shares were transferred (YYYY-MM-DD), today by default")
	f.StringVar(&c.broker, "b", networth.DefaultPledgeBroker, "Lender")
	f.Float64Var(&c.rate, "r", networth.DefaultPledgeRate, "Annual rate, in percent")
}

func (c *pledgeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.add {
		return withBook(func(book *networth.Book) error {
			s := book.State()
			printMarkdown(renderer.RenderPledges(renderer.NewPledgeReport(s)), s.Theme)
			return nil
		})
	}

	req := networth.PledgeRequest{
		Symbol:      c.symbol,
		Qty:         c.quantity,
		Broker:      c.broker,
		LoanAmount:  c.loan,
		RatePercent: c.rate,
	}
	var err error
	if req.LoanDate, err = date.Parse(c.loanDate); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing loan date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if req.TransferDate, err = date.Parse(c.transferDate); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing transfer date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withBook(func(book *networth.Book) error {
		s := book.State()
		p, err := networth.NewPledge(req, s.Prices)
		if err != nil {
			return err
		}
		if _, ok := s.Prices[p.Symbol]; !ok {
			fmt.Fprintf(os.Stderr, "Warning: no price for %s, the collateral is valued 0\n", p.Symbol)
		}
		if err := book.Apply(networth.AddPledge{Pledge: p}); err != nil {
			return err
		}
		fmt.Printf("Pledged %s x %s for %s TWD, due %s\n", networth.FormatNumber(p.Qty, 0, 4), p.Symbol,
			networth.FormatMoney(p.LoanAmount), p.RepaymentDate)
		pushRemote(ctx, book.State(), func(ctx context.Context, c *remote.Client) error {
			return c.PostPledge(ctx, p)
		})
		return nil
	})
}
