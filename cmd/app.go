// Package cmd implements the nw command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/networth"
	"github.com/etnz/networth/config"
	"github.com/etnz/networth/remote"
	"github.com/etnz/networth/storage"
	"github.com/google/subcommands"
)

// Group is a set of related subcommands.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Groups lists every nw subcommand, in help order.
var Groups = []Group{
	{"transactions", []subcommands.Command{&buyCmd{}, &sellCmd{}, &rmCmd{}, &txCmd{}}},
	{"reports", []subcommands.Command{&overviewCmd{}, &bankCmd{}, &pledgeCmd{}}},
	{"data", []subcommands.Command{&priceCmd{}, &rateCmd{}, &syncCmd{}, &endpointCmd{}, &themeCmd{}, &clearCmd{}, &exportCmd{}, &importCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}, &assistCmd{}}},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, g := range Groups {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeKind = flag.String("store", "", "Storage backend, dir or sqlite. Defaults to the configured one.")
	storePath = flag.String("path", "", "Storage location. Defaults to the configured one.")
	Verbose   = flag.Bool("v", false, "Log remote requests.")
	raw       = flag.Bool("raw", false, "Print reports as raw markdown.")
)

var settings = sync.OnceValues(func() (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return c, err
	}
	if *storeKind != "" {
		c.Storage.Kind = *storeKind
	}
	if *storePath != "" {
		c.Storage.Path = *storePath
	}
	return c, nil
})

// OpenBook opens the configured book. close releases the storage.
func OpenBook() (book *networth.Book, close func(), err error) {
	cfg, err := settings()
	if err != nil {
		return nil, nil, err
	}
	st, err := storage.Open(storage.Kind(cfg.Storage.Kind), cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open %s storage %q: %w", cfg.Storage.Kind, cfg.Storage.Path, err)
	}
	close = func() {
		if c, ok := st.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("warning: closing storage: %v", err)
			}
		}
	}
	book, err = networth.OpenBook(st)
	if err != nil {
		close()
		return nil, nil, fmt.Errorf("could not load book from %q: %w", cfg.Storage.Path, err)
	}
	return book, close, nil
}

// remoteClient returns a client for the book's endpoint.
func remoteClient(s *networth.State) *remote.Client {
	c := remote.New(remote.NewHTTPClient(*Verbose), s.Endpoint)
	if cfg, err := settings(); err == nil && cfg.Remote.RateURL != "" {
		c.RateURL = cfg.Remote.RateURL
	}
	return c
}

// withBook opens the book, runs f and closes the book, reporting errors the
// usual way.
func withBook(f func(book *networth.Book) error) subcommands.ExitStatus {
	book, close, err := OpenBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer close()
	if err := f(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// pushRemote mirrors a local change to the endpoint, when one is set. A
// failure is reported but never undoes the local change.
func pushRemote(ctx context.Context, s *networth.State, push func(context.Context, *remote.Client) error) {
	if s.Endpoint == "" {
		return
	}
	if err := push(ctx, remoteClient(s)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: saved locally, but %v\n", err)
		return
	}
	fmt.Println("Sent to the remote sheet.")
}

// printMarkdown prints md, rendered for the terminal in the book's theme
// unless -raw is set.
func printMarkdown(md string, theme networth.Theme) {
	if *raw {
		fmt.Print(md)
		return
	}
	style := "light"
	if theme == networth.Dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
