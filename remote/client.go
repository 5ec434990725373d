// Package remote talks to the spreadsheet endpoint that mirrors the book, and
// to the public exchange rate API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/networth"
)

// DefaultRateURL returns the latest rates for one USD.
const DefaultRateURL = "https://open.er-api.com/v6/latest/USD"

// ErrNoEndpoint is returned when syncing without an endpoint.
var ErrNoEndpoint = errors.New("no sync endpoint, set one with 'nw endpoint <url>'")

// Client reaches the sync endpoint and the rate API.
type Client struct {
	HTTP     *http.Client
	Endpoint string
	RateURL  string
}

// New returns a Client for the given sync endpoint.
func New(client *http.Client, endpoint string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{HTTP: client, Endpoint: strings.TrimSpace(endpoint), RateURL: DefaultRateURL}
}

// syncResponse is the document served by the endpoint. Every section is
// optional.
type syncResponse struct {
	Error        any              `json:"error"`
	Transactions []map[string]any `json:"transactions"`
	MarketData   []map[string]any `json:"marketData"`
	BankData     []map[string]any `json:"bankData"`
	PledgeData   []map[string]any `json:"pledgeData"`
	Dashboard    map[string]any   `json:"dashboard"`
}

// usdRateKey is the dashboard cell holding the USD/TWD rate.
const usdRateKey = "匯率_USDTWD"

// Fetch downloads the whole book from the endpoint.
//
// The result is meant to be applied as is: sections missing from the response
// are nil and leave the local data alone.
func (c *Client) Fetch(ctx context.Context) (networth.Import, error) {
	if c.Endpoint == "" {
		return networth.Import{}, ErrNoEndpoint
	}
	var resp syncResponse
	if err := jwget(ctx, c.HTTP, c.Endpoint, &resp); err != nil {
		return networth.Import{}, fmt.Errorf("sync failed: %w", err)
	}
	if truthy(resp.Error) {
		return networth.Import{}, fmt.Errorf("sync failed: %v", resp.Error)
	}

	var imp networth.Import
	if resp.Transactions != nil {
		imp.Transactions = make([]networth.Transaction, 0, len(resp.Transactions))
		for _, row := range resp.Transactions {
			imp.Transactions = append(imp.Transactions, decodeTransaction(row))
		}
	}
	if resp.MarketData != nil {
		imp.Prices, imp.Betas = decodeMarketData(resp.MarketData)
	}
	if resp.BankData != nil {
		imp.Bank = make([]networth.BankAccount, 0, len(resp.BankData))
		for _, row := range resp.BankData {
			imp.Bank = append(imp.Bank, networth.BankAccount{
				Bank: str(row["bank"]),
				USD:  parseFloat(row["usd"]),
				TWD:  parseFloat(row["twd"]),
				Loan: parseFloat(row["loan"]),
			})
		}
	}
	if v := resp.Dashboard[usdRateKey]; truthy(v) {
		if rate := parseFloat(v); !math.IsNaN(rate) {
			imp.USDRate = &rate
		}
	}
	if resp.PledgeData != nil {
		imp.Pledges = make([]networth.PledgeRecord, 0, len(resp.PledgeData))
		for _, row := range resp.PledgeData {
			imp.Pledges = append(imp.Pledges, decodePledge(row))
		}
	}
	return imp, nil
}

func decodeTransaction(row map[string]any) networth.Transaction {
	on, ok := day(row["date"])
	if !ok {
		log.Printf("warning: transaction %v has an invalid date %q", row["symbol"], str(row["date"]))
	}
	currency := str(row["currency"])
	if currency == "" {
		currency = networth.ReportingCurrency
	}
	return networth.Transaction{
		ID:       networth.NewID(),
		Date:     on,
		Action:   networth.ParseAction(str(row["action"])),
		Symbol:   strings.ToUpper(str(row["symbol"])),
		Broker:   str(row["broker"]),
		Qty:      parseFloat(row["qty"]),
		Price:    parseFloat(row["price"]),
		Currency: currency,
	}
}

func decodeMarketData(rows []map[string]any) (prices, betas map[string]float64) {
	prices = make(map[string]float64)
	betas = make(map[string]float64)
	for _, row := range rows {
		symbol := strings.ToUpper(str(row["symbol"]))
		if truthy(row["price"]) {
			prices[symbol] = parseFloat(row["price"])
		}
		if beta, ok := row["beta"]; ok && beta != "" {
			betas[symbol] = parseFloat(beta)
		}
	}
	return prices, betas
}

func decodePledge(row map[string]any) networth.PledgeRecord {
	p := networth.PledgeRecord{
		Symbol:          str(row["symbol"]),
		Qty:             parseFloat(row["qty"]),
		Broker:          str(row["broker"]),
		CollateralValue: parseFloat(row["collateralValue"]),
		LoanAmount:      parseFloat(row["loanAmount"]),
		Rate:            parseFloat(row["rate"]),
	}
	p.TransferDate, _ = day(row["transferDate"])
	p.LoanDate, _ = day(row["loanDate"])
	p.RepaymentDate, _ = day(row["repaymentDate"])
	if v, ok := row["interest"]; ok && v != nil && v != "" {
		interest := parseFloat(v)
		p.Interest = &interest
	}
	return p
}

// FetchUSDTWD returns the current TWD value of one USD, rounded to cents.
func (c *Client) FetchUSDTWD(ctx context.Context) (float64, error) {
	var jobj any
	if err := jwget(ctx, c.HTTP, c.RateURL, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error fetching USD/TWD: %w", err)
	}
	path := "$.rates.TWD"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing USD/TWD: %q %w", path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val == 0 {
		return math.NaN(), fmt.Errorf("error parsing USD/TWD: %q is not a rate: %v", path, jval)
	}
	return networth.Round2(val), nil
}

// transactionPayload is a transaction the way the sheet records it.
type transactionPayload struct {
	networth.Transaction
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

// PostTransaction appends tx to the remote sheet.
//
// The symbol is sent with a leading quote so the sheet keeps codes like 0050
// as text.
func (c *Client) PostTransaction(ctx context.Context, tx networth.Transaction) error {
	return c.post(ctx, transactionPayload{
		Transaction: tx,
		Action:      tx.Action.Local(),
		Symbol:      "'" + tx.Symbol,
	})
}

type bankPayload struct {
	Type string `json:"type"`
	networth.BankAccount
}

// PostBank updates the balances of one bank on the remote sheet.
func (c *Client) PostBank(ctx context.Context, acct networth.BankAccount) error {
	return c.post(ctx, bankPayload{Type: "updateBank", BankAccount: acct})
}

type pledgePayload struct {
	Type string `json:"type"`
	networth.PledgeRecord
}

// PostPledge appends a pledge to the remote sheet.
func (c *Client) PostPledge(ctx context.Context, p networth.PledgeRecord) error {
	return c.post(ctx, pledgePayload{Type: "addPledge", PledgeRecord: p})
}

func (c *Client) post(ctx context.Context, payload any) error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	if err := jpost(ctx, c.HTTP, c.Endpoint, payload); err != nil {
		return fmt.Errorf("remote write failed: %w", err)
	}
	return nil
}
