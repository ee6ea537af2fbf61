package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwhitley/reprjson/pkg/batch"
	"github.com/mwhitley/reprjson/pkg/cache"
	"github.com/mwhitley/reprjson/pkg/convert"
	mcpserver "github.com/mwhitley/reprjson/pkg/mcp"
	"github.com/mwhitley/reprjson/pkg/mcplog"
	"github.com/mwhitley/reprjson/pkg/util"
	"github.com/mwhitley/reprjson/pkg/watch"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var exitCode int
	switch command := os.Args[1]; command {
	case "convert":
		exitCode = runConvert(os.Args[2:], cfg)
	case "batch":
		exitCode = runBatch(os.Args[2:], cfg)
	case "watch":
		exitCode = runWatch(os.Args[2:], cfg)
	case "serve":
		exitCode = runServe(os.Args[2:], cfg)
	case "version":
		fmt.Printf("reprjson %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		exitCode = 1
	}
	os.Exit(exitCode)
}

// setupLogger builds the process logger and installs it as the slog default.
func setupLogger(level string, cfg *ProjectConfig) {
	logCfg := util.DefaultLoggerConfig()
	logCfg.Level = util.LogLevel(resolveLogLevel(level, cfg))
	if cfg != nil && cfg.LogFormat != "" {
		logCfg.Format = util.LogFormat(cfg.LogFormat)
	}
	util.SetDefault(util.NewLogger(logCfg))
}

// runConvert reads repr text from a file argument or stdin and writes the
// converted JSON to stdout.
func runConvert(args []string, cfg *ProjectConfig) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	_ = fs.Parse(args)
	setupLogger(*logLevel, cfg)

	var raw []byte
	var err error
	if fs.NArg() > 0 {
		raw, err = os.ReadFile(fs.Arg(0))
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		return 1
	}

	res := convert.Convert(string(raw))
	if !res.Success {
		fmt.Fprintf(os.Stderr, "conversion failed: %s\n", res.Error)
		return 1
	}

	fmt.Println(res.JSON)
	return 0
}

// runBatch converts every matching file under a directory.
func runBatch(args []string, cfg *ProjectConfig) int {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "log level")
	workers := fs.Int("workers", 0, "worker count (0 = auto)")
	write := fs.Bool("write", false, "write <path>.json next to each input")
	var include, exclude multiFlag
	fs.Var(&include, "include", "include glob (repeatable)")
	fs.Var(&exclude, "exclude", "exclude glob (repeatable)")
	_ = fs.Parse(args)
	setupLogger(*logLevel, cfg)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	opts := batch.Options{
		Workers:      util.GetOptimalPoolSizeWithOverride(*workers),
		WriteOutputs: *write,
		Scan:         batch.ScanConfig{Include: include, Exclude: exclude},
	}
	if cfg != nil && len(include) == 0 && len(cfg.Include) > 0 {
		opts.Scan.Include = cfg.Include
	}
	if cfg != nil && len(exclude) == 0 && len(cfg.Exclude) > 0 {
		opts.Scan.Exclude = cfg.Exclude
	}
	if *workers == 0 && cfg != nil && cfg.MaxWorkers > 0 {
		opts.Workers = cfg.MaxWorkers
	}

	summary, outcomes, err := batch.NewRunner(nil).Run(context.Background(), root, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch run failed: %v\n", err)
		return 1
	}

	for _, o := range outcomes {
		if o.Success {
			fmt.Printf("ok   %s\n", o.Path)
		} else {
			fmt.Printf("fail %s: %s\n", o.Path, o.Error)
		}
	}
	fmt.Printf("%d discovered, %d converted, %d failed\n",
		summary.Discovered, summary.Converted, summary.Failed)

	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// runWatch converts matching files whenever they change, until interrupted.
func runWatch(args []string, cfg *ProjectConfig) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "log level")
	write := fs.Bool("write", true, "write <path>.json next to each input")
	debounce := fs.Int("debounce", 200, "debounce window in milliseconds")
	_ = fs.Parse(args)
	setupLogger(*logLevel, cfg)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	opts := watch.DefaultOptions()
	opts.WriteOutputs = *write
	opts.DebounceMs = *debounce

	watcher, err := watch.New(nil, nil, opts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create watcher: %v\n", err)
		return 1
	}
	if err := watcher.Start(root); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		return 1
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := watcher.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "watcher shutdown error: %v\n", err)
		return 1
	}
	return 0
}

// runServe starts the MCP server on stdio.
func runServe(args []string, cfg *ProjectConfig) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "log level")
	toolLog := fs.String("tool-log", "", "JSONL tool-call log path (empty = disabled)")
	_ = fs.Parse(args)
	setupLogger(*logLevel, cfg)

	conversions, err := cache.New(cache.DefaultConfig(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create conversion cache: %v\n", err)
		return 1
	}

	var toolLogger *mcplog.Logger
	if path := resolveToolLog(*toolLog, cfg); path != "" {
		toolLogger, err = mcplog.NewLogger(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open tool log: %v\n", err)
			return 1
		}
		defer toolLogger.Close()
	}

	srv := mcpserver.NewServer(conversions, toolLogger)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint([]string(*m)) }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func printUsage() {
	fmt.Println("Usage: reprjson <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convert [file]   Convert repr text (stdin or file) to JSON on stdout")
	fmt.Println("  batch [dir]      Convert all matching files under a directory")
	fmt.Println("  watch [dir]      Reconvert matching files as they change")
	fmt.Println("  serve            Start MCP server on stdio")
	fmt.Println("  version          Print version")
	fmt.Println("  help             Show this help message")
}
