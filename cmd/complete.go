package cmd

import (
	"flag"

	"github.com/etnz/networth/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// args predicts the positional arguments of some commands.
var args = map[string]complete.Predictor{
	"theme":  predict.Set{"light", "dark"},
	"import": predict.Files("*"),
	"topic":  complete.PredictFunc(func(string) []string { return docs.Names() }),
}

// flagValues predicts the values of some flags, by command.
var flagValues = map[string]map[string]complete.Predictor{
	"rate":   {"mode": predict.Set{"auto", "manual"}},
	"export": {"o": predict.Files("*"), "f": predict.Set{"json", "yaml"}},
	"import": {"f": predict.Set{"json", "yaml"}},
	"buy":    {"c": predict.Set{"TWD", "USD"}},
	"sell":   {"c": predict.Set{"TWD", "USD"}},
}

// Completion describes the nw command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(flag.CommandLine, nil),
	}
	for _, g := range Groups {
		for _, c := range g.Commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{
				Flags: predictFlags(fs, flagValues[c.Name()]),
				Args:  args[c.Name()],
			}
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{Args: predict.Set(Names())}
	}
	return root
}

func predictFlags(fs *flag.FlagSet, values map[string]complete.Predictor) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := values[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// Names returns the names of the nw subcommands.
func Names() []string {
	var names []string
	for _, g := range Groups {
		for _, c := range g.Commands {
			names = append(names, c.Name())
		}
	}
	return names
}

// Known reports whether name is a subcommand of nw, builtins included.
func Known(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}
