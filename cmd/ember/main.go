package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/emberlang/ember/internal/ember"
	"github.com/emberlang/ember/internal/interp"
	"github.com/emberlang/ember/internal/lexer"
	"github.com/emberlang/ember/internal/parser"
	"github.com/spf13/cobra"
)

// Exit codes: 70 for a tokenize failure, 1 for a parse or runtime
// failure, 0 on success, so shell callers can tell a tokenize failure
// apart from the later phases.
const (
	exitOK          = 0
	exitRuntime     = 1
	exitTokenizeErr = 70
)

func main() {
	var (
		debug   bool
		noColor bool
	)

	rootCmd := &cobra.Command{
		Use:           "ember [script]",
		Short:         "Run ember scripts or start an interactive prompt",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			if len(args) == 1 {
				os.Exit(runFile(args[0], debug, useColor))
			}
			runPrompt(debug, useColor)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging for the lexer and evaluator (the parser does not log)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitRuntime)
	}
}

// runFile tokenizes, parses, and (if both phases are clean) evaluates a
// single source file, returning the process exit code to use.
func runFile(path string, debug, useColor bool) int {
	if debug {
		os.Setenv("EMBER_DEBUG_LEXER", "1")
		os.Setenv("EMBER_DEBUG_PARSER", "1")
		os.Setenv("EMBER_DEBUG_EVAL", "1")
	}

	source, err := os.ReadFile(path)
	if err != nil {
		printDiagnostic(os.Stderr, fmt.Sprintf("cannot read %s: %v", path, err), useColor)
		return exitRuntime
	}

	tokens, tokErrs := lexer.Tokenize(string(source))
	if len(tokErrs) > 0 {
		printErrors(tokErrs, useColor)
		return exitTokenizeErr
	}

	stmts, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		printErrors(parseErrs, useColor)
		return exitRuntime
	}

	in := interp.New(os.Stdout)
	if rtErr := in.Interpret(stmts); rtErr != nil {
		printErrors([]*ember.Error{rtErr}, useColor)
		return exitRuntime
	}
	return exitOK
}

// runPrompt runs an interactive read-eval-print loop. Every line is
// tokenized and parsed independently but shares one interpreter, so
// variable bindings persist across lines. A bad line reports its errors
// and the loop continues; it never evaluates a line that has parse
// errors. SIGINT interrupts the current input line and redraws the
// prompt instead of killing the process, matching the teacher's
// cancellable-context convention without needing a full context plumbed
// through the (synchronous, non-cancellable) core.
func runPrompt(debug, useColor bool) {
	if debug {
		os.Setenv("EMBER_DEBUG_LEXER", "1")
		os.Setenv("EMBER_DEBUG_PARSER", "1")
		os.Setenv("EMBER_DEBUG_EVAL", "1")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	in := interp.New(os.Stdout)

	for {
		fmt.Fprint(os.Stdout, "ember> ")

		select {
		case <-sigCh:
			fmt.Fprintln(os.Stdout)
			continue

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(os.Stdout)
				return
			}
			if line == "" {
				continue
			}
			runLine(in, line, useColor)
		}
	}
}

func runLine(in *interp.Interp, line string, useColor bool) {
	tokens, tokErrs := lexer.Tokenize(line)
	if len(tokErrs) > 0 {
		printErrors(tokErrs, useColor)
		return
	}

	stmts, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		printErrors(parseErrs, useColor)
		return
	}

	if rtErr := in.Interpret(stmts); rtErr != nil {
		printErrors([]*ember.Error{rtErr}, useColor)
	}
}

func printErrors(errs []*ember.Error, useColor bool) {
	for _, e := range errs {
		msg := e.Error()
		if e.Hint != "" {
			msg += " " + e.Hint
		}
		printDiagnostic(os.Stderr, msg, useColor)
	}
}

func printDiagnostic(w io.Writer, msg string, useColor bool) {
	fmt.Fprintln(w, colorize(msg, colorRed, useColor))
}

const (
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

// colorize wraps text in an ANSI color code if color output is enabled.
func colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + colorReset
}

// shouldUseColor respects --no-color, NO_COLOR, and whether stdout is
// actually a terminal.
func shouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
