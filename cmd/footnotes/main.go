// Command footnotes extracts footnotes from Bible module markup and merges
// them into canonical JSON documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/core/sqlite"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/config"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

const version = "0.4.0"

// CLI defines the command-line interface for footnotes.
type CLI struct {
	// Global flags
	Config    string `name:"config" help:"TOML config file (default ./footnotes.toml when present)" type:"path"`
	EnvFile   string `name:"env-file" help:"dotenv file read for FOOTNOTES_* variables" default:".env" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: json or text"`

	MySword  MySwordCmd  `cmd:"" name:"mysword" help:"Merge <RF> footnotes from a MySword Bible database"`
	Sword    SwordCmd    `cmd:"" help:"Merge OSIS <note> footnotes from a SWORD zText module"`
	Validate ValidateCmd `cmd:"" help:"Check a canonical document against its schema and invariants"`
	Export   ExportCmd   `cmd:"" help:"Write CSV or SQL exports of a canonical document"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// app carries the resolved settings into every command.
type app struct {
	ctx context.Context
	cfg config.Config
	out io.Writer
}

// setup resolves configuration, initialises logging and tags the context
// with a run id.
func (c *CLI) setup(ctx context.Context, out, logOut io.Writer) (*app, error) {
	dotenv, err := config.ReadDotEnv(c.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.Config, config.Environment(dotenv))
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	logging.InitLoggerWriter(level, format, logOut)

	ctx = logging.WithRunID(ctx, logging.NewRunID())
	logging.DebugContext(ctx, "config_loaded",
		"config", c.Config,
		"document", cfg.Document,
		"sqlite_driver", sqlite.DriverType(),
	)
	return &app{ctx: ctx, cfg: cfg, out: out}, nil
}

func options(stdout, stderr io.Writer) []kong.Option {
	return []kong.Option{
		kong.Name("footnotes"),
		kong.Description("Extract Bible module footnotes and merge them into canonical JSON"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
	}
}

// execute parses args and runs the selected command. Usage is printed on a
// parse error.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli, options(stdout, stderr)...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return err
	}
	a, err := cli.setup(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	return kctx.Run(a)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "footnotes version %s (sqlite: %s)\n", version, sqlite.DriverType())
	return nil
}

// Helper functions

// first returns the first non-empty value.
func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// translationFromDoc derives an export id from a document file name.
func translationFromDoc(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".xz", ".json"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "footnotes: error: %v\n", err)
		os.Exit(1)
	}
}
