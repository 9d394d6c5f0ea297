// Command rick is the CLI entry point: `rick run FILE [-- args...]`
// executes a program, `rick check FILE` only scans/parses/type-checks
// it. Structured logging and cobra wiring follow the teacher's
// cli/main.go shape (spec.md §6 EXTERNAL INTERFACES, SPEC_FULL.md's
// DOMAIN STACK table).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rickyang/rick/internal/config"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/interp"
	"github.com/rickyang/rick/internal/lexer"
	"github.com/rickyang/rick/internal/parser"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		debug     bool
		traceEval bool
		noColor   bool
		configPath string
		watch     bool
	)

	rootCmd := &cobra.Command{
		Use:           "rick",
		Short:         "Scan, parse, and run rick source files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose diagnostic logging")
	rootCmd.PersistentFlags().BoolVar(&traceEval, "trace-eval", false, "log every function call/return during evaluation")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostics")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .rickrc.json configuration file")

	exitCode := 0

	runCmd := &cobra.Command{
		Use:   "run FILE [-- args...]",
		Short: "Scan, parse, type-check, and evaluate a rick source file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			programArgs := args[1:]
			cfg, err := loadConfig(configPath)
			if err != nil {
				exitCode = 1
				return err
			}
			if cfg.NoColor {
				noColor = true
			}
			logger := newLogger(debug)

			execute := func() int {
				code, fault := runFile(file, programArgs, cfg, logger, traceEval, noColor)
				if fault != nil {
					return code
				}
				return code
			}

			if !watch {
				exitCode = execute()
				return nil
			}
			exitCode = execute()
			return watchAndRerun(file, execute)
		},
	}
	runCmd.Flags().BoolVar(&watch, "watch", false, "re-run on source file change")

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Scan, parse, and type-check a rick source file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				exitCode = 1
				return err
			}
			if cfg.NoColor {
				noColor = true
			}
			logger := newLogger(debug)
			if err := checkFile(args[0], cfg, logger, noColor); err != nil {
				exitCode = 1
				return err
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelError + 1
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// compile runs the scanner and parser over file's contents, returning
// the Parser that accepted it, the source bytes and true, or rendering
// the first diag.Error to stderr and returning false.
func compile(file string, cfg *config.Config, logger *slog.Logger, noColor bool) (*parser.Parser, []byte, bool) {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rick: %s: %v\n", file, err)
		return nil, nil, false
	}

	lx := lexer.New(string(src), logger)
	if cfg.MaxIdentifierLength > 0 {
		lx.WithMaxIdentifierLength(cfg.MaxIdentifierLength)
	}
	pairs, lexErr := lx.ScanAll()
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, renderError(file, lexErr, noColor))
		return nil, src, false
	}

	p := parser.New(pairs, logger)
	if _, parseErr := p.Parse(); parseErr != nil {
		fmt.Fprintln(os.Stderr, renderError(file, parseErr, noColor))
		return nil, src, false
	}
	return p, src, true
}

func checkFile(file string, cfg *config.Config, logger *slog.Logger, noColor bool) error {
	p, _, ok := compile(file, cfg, logger, noColor)
	if !ok {
		return fmt.Errorf("check failed")
	}
	_ = p
	return nil
}

func runFile(file string, args []string, cfg *config.Config, logger *slog.Logger, traceEval, noColor bool) (int, *diag.Fault) {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rick: %s: %v\n", file, err)
		return 1, nil
	}

	lx := lexer.New(string(src), logger)
	if cfg.MaxIdentifierLength > 0 {
		lx.WithMaxIdentifierLength(cfg.MaxIdentifierLength)
	}
	pairs, lexErr := lx.ScanAll()
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, renderError(file, lexErr, noColor))
		return 1, nil
	}

	p := parser.New(pairs, logger)
	top, parseErr := p.Parse()
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, renderError(file, parseErr, noColor))
		return 1, nil
	}

	evalLogger := logger
	if traceEval || cfg.Trace {
		evalLogger = newLogger(true)
	}
	argv := append([]string{file}, args...)
	it := interp.New(top, os.Stdin, os.Stdout, evalLogger).WithFingerprint(diag.Fingerprint(src))
	code, fault := it.Run(argv)
	if fault != nil {
		fmt.Fprintln(os.Stderr, renderFault(file, fault, noColor))
		return 1, fault
	}
	return code, nil
}

func renderError(file string, err *diag.Error, noColor bool) string {
	msg := diag.Render(file, err)
	return colorize(msg, colorRed, !noColor)
}

func renderFault(file string, f *diag.Fault, noColor bool) string {
	msg := diag.RenderFault(file, f)
	return colorize(msg, colorRed, !noColor)
}

// watchAndRerun re-invokes execute every time file's containing
// directory reports a write or create event for file, until the process is
// interrupted. fsnotify watches the directory rather than the file
// itself so editors that replace-via-rename keep being observed.
func watchAndRerun(file string, execute func() int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	dir := dirOf(file)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name == file && (ev.Op&(fsnotify.Write|fsnotify.Create) != 0) {
				execute()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "rick: watch error: %v\n", err)
		}
	}
}

func dirOf(file string) string {
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			return file[:i]
		}
	}
	return "."
}
