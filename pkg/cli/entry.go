// Package cli implements the tally command: maintenance of conversion tables
// and settings, and a demo run of the interpreter.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	tally "github.com/funvibe/tally/pkg/embed"
	"gopkg.in/yaml.v3"
)

// App is one invocation of the command. Handlers write to Stdout and Stderr
// and report the exit status.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command in os.Args and exits with its status.
func Run() {
	app := &App{Stdout: os.Stdout, Stderr: os.Stderr}
	os.Exit(app.Main(os.Args[1:]))
}

// Main dispatches args and returns the exit status.
func (a *App) Main(args []string) int {
	if len(args) == 0 {
		a.usage(a.Stderr)
		return 2
	}

	switch args[0] {
	case "-v", "-version", "--version", "version":
		fmt.Fprintln(a.Stdout, "tally "+config.Version)
		return 0
	case "-help", "--help", "help":
		a.usage(a.Stdout)
		return 0
	case "rates":
		return a.handleRates(args[1:])
	case "settings":
		return a.handleSettings(args[1:])
	case "demo":
		return a.handleDemo(args[1:])
	}

	fmt.Fprintf(a.Stderr, "Unknown command: %s\n", args[0])
	a.usage(a.Stderr)
	return 2
}

func (a *App) usage(w io.Writer) {
	fmt.Fprint(w, `Usage: tally <command> [arguments]

Commands:
  rates check [-strict] <file>    validate a conversion table (.yaml or SQLite)
  rates import <yaml> <db>        copy a YAML conversion table into SQLite
  rates export <db>               print a SQLite conversion table as YAML
  settings [file]                 print effective settings (default tally.yaml)
  demo [-settings file] [-debug]  run the sample ledger program
  version                         print the version
`)
}

func (a *App) fail(format string, args ...interface{}) int {
	fmt.Fprintf(a.Stderr, "Error: "+format+"\n", args...)
	return 1
}

// loadRates reads a conversion table from YAML or, for any other
// extension, from a SQLite database.
func loadRates(path string) (*config.ConversionTable, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return tally.LoadRates(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return tally.OpenRates(context.Background(), path)
}

func (a *App) handleRates(args []string) int {
	if len(args) == 0 {
		return a.fail("rates: missing subcommand (check, import, export)")
	}

	switch args[0] {
	case "check":
		fs := flag.NewFlagSet("rates check", flag.ContinueOnError)
		fs.SetOutput(a.Stderr)
		strict := fs.Bool("strict", false, "require ISO 4217 currency codes")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			return a.fail("rates check: expected one file")
		}
		table, err := loadRates(fs.Arg(0))
		if err != nil {
			return a.fail("%s", err)
		}
		if *strict {
			if err := table.ValidateISO(); err != nil {
				return a.fail("%s", err)
			}
		}
		fmt.Fprintf(a.Stdout, "currencies: %s\n", strings.Join(table.Currencies(), ", "))
		for _, p := range table.Pairs() {
			rate, _ := table.Rate(p.From, p.To)
			fmt.Fprintf(a.Stdout, "  %s = %s\n", p, rate)
		}
		return 0

	case "import":
		if len(args) != 3 {
			return a.fail("rates import: expected <yaml> <db>")
		}
		table, err := tally.LoadRates(args[1])
		if err != nil {
			return a.fail("%s", err)
		}
		if err := tally.SaveRates(context.Background(), args[2], table); err != nil {
			return a.fail("%s", err)
		}
		fmt.Fprintf(a.Stdout, "imported %d currencies and %d rates into %s\n",
			len(table.Currencies()), len(table.Pairs()), args[2])
		return 0

	case "export":
		if len(args) != 2 {
			return a.fail("rates export: expected <db>")
		}
		table, err := loadRates(args[1])
		if err != nil {
			return a.fail("%s", err)
		}
		data, err := config.MarshalConversionTable(table)
		if err != nil {
			return a.fail("%s", err)
		}
		a.Stdout.Write(data)
		return 0
	}

	return a.fail("rates: unknown subcommand %q", args[0])
}

func (a *App) handleSettings(args []string) int {
	path := config.SettingsFileName
	if len(args) > 0 {
		path = args[0]
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		return a.fail("%s", err)
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return a.fail("%s", err)
	}
	a.Stdout.Write(data)
	return 0
}

func (a *App) handleDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	settingsPath := fs.String("settings", "", "settings file")
	debug := fs.Bool("debug", false, "log evaluation steps")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	settings := config.DefaultSettings()
	rates := demoRates()
	if *settingsPath != "" {
		var err error
		if settings, err = config.LoadSettings(*settingsPath); err != nil {
			return a.fail("%s", err)
		}
		if settings.RatesFile != "" {
			if rates, err = settings.ConversionTable(); err != nil {
				return a.fail("%s", err)
			}
		}
	}
	if *debug {
		settings.LogLevel = "debug"
	}
	level, _ := config.ParseLogLevel(settings.LogLevel)

	console := diagnostics.NewConsole(a.Stderr, settings.MaxDiagnostics)
	in := tally.New(tally.Options{
		Settings: settings,
		Rates:    rates,
		Out:      a.Stdout,
		Logger:   slog.New(slog.NewTextHandler(a.Stderr, &slog.HandlerOptions{Level: level})),
		Handler:  console,
	})
	if err := in.Run(demoProgram()); err != nil {
		return 1
	}
	return 0
}
