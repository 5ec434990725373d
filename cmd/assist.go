package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/networth/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the AI assistant about your book" }
func (*assistCmd) Usage() string {
	return `assist [-m <model>] [<question>]

  Starts an interactive session with the AI assistant. The assistant reads the
  book, it never changes it. Requires GEMINI_API_KEY (or GOOGLE_API_KEY).
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "m", "", "Gemini model, defaults to the configured one")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	model := c.model
	if model == "" {
		cfg, err := settings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return subcommands.ExitFailure
		}
		model = cfg.Assist.Model
	}

	book, close, err := OpenBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer close()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	theme := book.State().Theme
	a := agent.New(model, os.Stdout, os.Stdin, agent.NewTrader(model), agent.NewAnalyst(model, book.State))
	a.Print = func(_ io.Writer, md string) { printMarkdown(md, theme) }

	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
