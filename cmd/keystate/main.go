// Package main is the entry point for the keystate script runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keystate/internal/config"
	"github.com/dshills/keystate/internal/logging"
	"github.com/dshills/keystate/internal/script"
	"github.com/dshills/keystate/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds command line settings. Empty strings leave the
// configured value alone.
type options struct {
	ConfigPath string
	LogLevel   string
	Format     string
	Watch      bool
	ScriptPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: os.Stderr,
		Prefix: "keystate",
	})

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !opts.Watch {
		if err := runOnce(ctx, os.Stdout, opts.ScriptPath, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := watchScript(ctx, os.Stdout, opts.ScriptPath, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Format, "format", "", "Output format (text, json)")
	flag.BoolVar(&opts.Watch, "watch", false, "Re-run the script whenever it changes")
	flag.BoolVar(&opts.Watch, "w", false, "Re-run the script whenever it changes (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keystate - replay edit scripts against an editor state\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keystate [options] script.(yaml|toml|json|lua)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keystate edit.yaml                Run a script and print the result\n")
		fmt.Fprintf(os.Stderr, "  keystate -format json edit.lua    Print the result as JSON\n")
		fmt.Fprintf(os.Stderr, "  keystate -watch edit.toml         Re-run on every save\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("keystate %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.ScriptPath = flag.Arg(0)

	return opts
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.NewLoader().Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	return cfg, cfg.Validate()
}

// execute runs the script at path with a fresh runner.
func execute(ctx context.Context, path string, cfg config.Config, logger *logging.Logger) (script.Result, error) {
	format, err := script.FormatFromPath(path)
	if err != nil {
		return script.Result{}, err
	}

	runner := script.NewRunner(
		script.WithLogger(logger),
		script.WithMaxUndo(cfg.History.MaxEntries),
	)

	if format == script.FormatLua {
		return script.RunLuaFile(ctx, runner, path)
	}

	s, err := script.Load(path)
	if err != nil {
		return script.Result{}, err
	}
	return runner.Run(s)
}

// runOnce executes the script and writes the result to w.
func runOnce(ctx context.Context, w io.Writer, path string, cfg config.Config, logger *logging.Logger) error {
	res, err := execute(ctx, path, cfg, logger)
	if err != nil {
		return err
	}
	return printResult(w, res, cfg.Output.Format)
}

// watchScript runs the script, then again after every change, until ctx
// is cancelled. Script errors are reported and watching continues.
func watchScript(ctx context.Context, w io.Writer, path string, cfg config.Config, logger *logging.Logger) error {
	watcher, err := watch.New(path,
		watch.WithDebounce(cfg.Debounce()),
		watch.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	rerun := func() {
		if err := runOnce(ctx, w, path, cfg, logger); err != nil {
			logger.Error("%v", err)
		}
	}

	rerun()
	logger.Info("watching %s", watcher.Path())

	return watcher.Run(ctx, rerun)
}

func printResult(w io.Writer, res script.Result, format string) error {
	if format == config.FormatJSON {
		data, err := res.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	_, err := io.WriteString(w, res.String())
	return err
}
