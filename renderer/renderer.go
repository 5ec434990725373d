// Package renderer turns the book into markdown reports.
//
// Every report is a plain struct built from a *networth.State and rendered by
// a text/template stored next to this file. Numbers are formatted by the
// template functions below, so report structs keep raw values and can be
// serialized as is.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/networth"
)

//go:embed *.md
var templates embed.FS

// funcs are the formatting helpers available to every template.
var funcs = template.FuncMap{
	// money0 is a TWD total: grouped, no decimals.
	"money0": func(v float64) string { return networth.FormatNumber(v, 0, 0) },
	// money is a price or an average cost: up to two decimals.
	"money": networth.FormatMoney,
	// price always shows two decimals.
	"price": func(v float64) string { return networth.FormatNumber(v, 2, 2) },
	"qty":   func(v float64) string { return networth.FormatNumber(v, 0, 4) },
	"pct":   networth.FormatPercent,
	"pct1":  func(v float64) string { return networth.FormatNumber(v, 1, 1) + "%" },
	"beta":  func(v float64) string { return networth.FormatNumber(v, 2, 2) },
	"arrow": func(v float64) string { return networth.ToneOf(v).Arrow() },
}

// RenderOverview renders the dashboard.
func RenderOverview(o *Overview) string {
	partials := map[string]string{
		"overview_summary":    "overview_summary.md",
		"overview_cash":       "overview_cash.md",
		"overview_categories": "overview_categories.md",
		"overview_holdings":   "overview_holdings.md",
		"overview_closed":     "overview_closed.md",
	}
	return renderTemplate("overview", "overview.md", partials, o)
}

// RenderTransactions renders the transaction log.
func RenderTransactions(l *TransactionList) string {
	return renderTemplate("transactions", "transactions.md", nil, l)
}

// RenderBank renders the bank balances.
func RenderBank(b *BankReport) string {
	return renderTemplate("bank", "bank.md", nil, b)
}

// RenderPledges renders the pledge loans with their maintenance ratios.
func RenderPledges(p *PledgeReport) string {
	return renderTemplate("pledges", "pledges.md", nil, p)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
