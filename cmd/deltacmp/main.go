package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/pthm/deltacmp/lib/generator"
	"github.com/pthm/deltacmp/lib/schema"
)

const version = "0.1.0"

var errFailed = errors.New("one or more components failed to generate")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = runGenerate(args)
	case "clean":
		err = runClean(args)
	case "schema":
		err = runSchema(args)
	case "watch":
		err = runWatch(args)
	case "version":
		fmt.Printf("deltacmp version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", paint(os.Stderr, red, "error:"), err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`deltacmp - parameter delta compiler for Go UI components

Usage:
  deltacmp <command> [arguments]

Commands:
  generate [packages]   Generate SetParameters for components (e.g., ./... or ./ui/...)
  clean [packages]      Remove generated files (*_dx.go)
  schema [packages]     Write the component manifest (msgpack)
  watch [packages]      Regenerate on every source change
  version               Print version
  help                  Show this help

Options:
  --dry-run             Show what would be generated without writing files
  --workers N           Synthesize at most N components in parallel
  --tags a,b            Build tags used when loading packages
  --out FILE            Manifest output file for schema (default stdout)

Configuration is read from .deltacmp.yaml and DELTACMP_WORKERS,
DELTACMP_LOG_LEVEL and DELTACMP_TAGS; flags take precedence.

Examples:
  deltacmp generate ./...                 Generate for all packages
  deltacmp generate ./ui/widgets          Generate for specific package
  deltacmp generate --dry-run ./...       Preview generation
  deltacmp schema --out dx.msgpack ./...  Write the manifest
  deltacmp clean ./...                    Remove all generated files`)
}

// invocation is a parsed command line merged over the configuration.
type invocation struct {
	cfg      generator.Config
	dryRun   bool
	out      string
	patterns []string
}

func parseArgs(args []string) (*invocation, error) {
	cfg, err := generator.LoadConfig(".")
	if err != nil {
		return nil, err
	}
	inv := &invocation{cfg: cfg}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if _, v, ok := strings.Cut(arg, "="); ok {
				return v, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", arg)
			}
			i++
			return args[i], nil
		}

		switch {
		case arg == "--dry-run":
			inv.dryRun = true
		case arg == "--workers" || strings.HasPrefix(arg, "--workers="):
			v, err := value()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid --workers %q", v)
			}
			inv.cfg.Workers = n
		case arg == "--tags" || strings.HasPrefix(arg, "--tags="):
			v, err := value()
			if err != nil {
				return nil, err
			}
			inv.cfg.Tags = strings.Split(v, ",")
		case arg == "--out" || strings.HasPrefix(arg, "--out="):
			v, err := value()
			if err != nil {
				return nil, err
			}
			inv.out = v
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown option: %s", arg)
		default:
			inv.patterns = append(inv.patterns, arg)
		}
	}

	if len(inv.patterns) == 0 {
		inv.patterns = inv.cfg.Patterns
	}
	return inv, nil
}

func (inv *invocation) generator() *generator.Generator {
	level, _ := inv.cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts := inv.cfg.Options(logger, os.Stdout)
	opts.DryRun = inv.dryRun
	return generator.New(opts)
}

func runGenerate(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	report, err := inv.generator().Generate(inv.patterns...)
	if err != nil {
		return err
	}
	return summarize(os.Stderr, report)
}

func runClean(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}
	return inv.generator().Clean(inv.patterns...)
}

func runSchema(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	report, err := inv.generator().Analyze(inv.patterns...)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if inv.out != "" {
		f, err := os.Create(inv.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	manifest := schema.NewManifest("deltacmp "+version, report.Schemas)
	if err := manifest.Encode(w); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if report.HasErrors() {
		return summarize(os.Stderr, report)
	}
	return nil
}

func runWatch(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %s\n", strings.Join(inv.patterns, " "))
	return inv.generator().Watch(ctx, func(report *generator.Report, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", paint(os.Stderr, red, "error:"), err)
			return
		}
		_ = summarize(os.Stderr, report)
	}, inv.patterns...)
}

// summarize prints warnings and errors and a one-line summary.
func summarize(w *os.File, report *generator.Report) error {
	var warnings, errs int
	for _, d := range report.Diagnostics {
		switch d.Severity {
		case generator.SeverityWarning:
			warnings++
			fmt.Fprintf(w, "%s %s: %s: %s\n", paint(w, yellow, "warning:"), d.Pos, d.Component, d.Message)
		case generator.SeverityError:
			errs++
			fmt.Fprintf(w, "%s %s: %s: %s\n", paint(w, red, "error:"), d.Pos, d.Component, d.Message)
		}
	}

	status := paint(w, green, "ok")
	if errs > 0 {
		status = paint(w, red, "failed")
	}
	fmt.Fprintf(w, "%s: %d components, %d files, %d warnings, %d errors\n",
		status, len(report.Schemas), len(report.Files), warnings, errs)

	if errs > 0 {
		return errFailed
	}
	return nil
}

const (
	red    = "31"
	green  = "32"
	yellow = "33"
)

// paint colors s when f is a terminal.
func paint(f *os.File, color, s string) string {
	if os.Getenv("NO_COLOR") != "" {
		return s
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return s
	}
	return "\x1b[" + color + "m" + s + "\x1b[0m"
}
