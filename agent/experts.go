package agent

import (
	"context"
	"fmt"

	"github.com/etnz/networth"
	"github.com/etnz/networth/docs"
	"github.com/etnz/networth/renderer"
	"google.golang.org/genai"
)

func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			The experts available as Tools keep the context of your previous questions.
			Ask the Analyst first whenever the request is about the user's own money: net worth,
			holdings, profits, cash, loans or pledges. Amounts are in TWD unless stated otherwise.

			Devise a plan of questions to the experts and come up with the best answer.
			Answer in the language of the user.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search, for market news.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `An expert trader, aware of financial products, of the Taiwanese and US markets
		and of the latest news about funds and companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading. Leverage Google Search to ground your assertions,
			and relate the latest news to the user's request.
			`}}},
		},
	}
}

// NewAnalyst returns the expert reading the book. state is called on every
// tool call, so answers follow the latest data.
func NewAnalyst(model string, state func() *networth.State) *Expert {
	lib := BookFunctions(state)

	guide := must(docs.Guide())
	return &Expert{
		Name: "Analyst",
		Description: `The Analyst reads the user's book: transactions, holdings valued at the
		latest prices, bank balances, loans and pledges. Ask the Analyst for any figure about the
		user's wealth.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the analyst of the user's personal book. Use the Tools to read it, never guess
			a figure. The reports are markdown, gains are marked ▲ and losses ▼.

			This is how the figures are computed:

			` + guide}}},
		},
		Library: NewLibrary(lib),
	}
}

// BookFunctions returns the tools reading the book returned by state.
func BookFunctions(state func() *networth.State) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Overview",
				Description: "Overview returns the net worth dashboard: totals, cash and rates, liabilities, allocation by category and the open positions.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"closed": {
							Type:        genai.TypeBoolean,
							Description: "Also list the fully sold positions and their realized profit.",
						},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The dashboard, in markdown."},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				closed, _ := args["closed"].(bool)
				return renderer.RenderOverview(renderer.NewOverview(state(), closed)), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Transactions lists the buy and sell transactions, newest first.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {
							Type:        genai.TypeString,
							Description: "Only list the transactions of this symbol, for instance 0050 or AAPL.",
						},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of transactions."},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				symbol := ""
				if v, ok := args["symbol"]; ok {
					s, ok := v.(string)
					if !ok {
						return "", fmt.Errorf("argument 'symbol' is not a string as expected but %T", v)
					}
					symbol = s
				}
				return renderer.RenderTransactions(renderer.NewTransactionList(state(), symbol)), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Bank",
				Description: "Bank lists the bank accounts with their USD and TWD balances and loans.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table of bank accounts."},
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderBank(renderer.NewBankReport(state())), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Pledges",
				Description: "Pledges lists the loans secured by pledged shares with their maintenance ratio.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table of pledges."},
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderPledges(renderer.NewPledgeReport(state())), nil
			},
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
