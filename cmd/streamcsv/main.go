// Command streamcsv is a thin CLI over the stream-csv codec: it
// converts between CSV dialects, validates streams, and sniffs
// dialects. All parsing logic lives in pkg/csv.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/shapestone/stream-csv/pkg/csv"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:           "streamcsv",
	Short:         "Streaming CSV conversion and validation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity, can be repeated")
	rootCmd.AddCommand(convertCmd, checkCmd, sniffCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Verbosity 0 logs warnings only.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

// openInput returns stdin for "-" or no argument.
func openInput(args []string) (*os.File, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// parseRune interprets a single-character flag value, accepting the
// escapes \t for tab and the word "tab".
func parseRune(flag, value string) (rune, error) {
	switch value {
	case `\t`, "tab":
		return '\t', nil
	}
	c, size := utf8.DecodeRuneInString(value)
	if size == 0 || size != len(value) || c == utf8.RuneError {
		return 0, fmt.Errorf("--%s must be a single character, got %q", flag, value)
	}
	return c, nil
}

func parseCommentMode(value string) (csv.CommentMode, error) {
	switch strings.ToLower(value) {
	case "none":
		return csv.CommentNone, nil
	case "read":
		return csv.CommentRead, nil
	case "skip":
		return csv.CommentSkip, nil
	}
	return 0, fmt.Errorf("--comments must be none, read, or skip, got %q", value)
}

func parseQuoteMode(value string) (csv.QuoteMode, error) {
	switch strings.ToLower(value) {
	case "minimal":
		return csv.QuoteMinimal, nil
	case "always":
		return csv.QuoteAlways, nil
	case "non-numeric":
		return csv.QuoteNonNumeric, nil
	case "empty":
		return csv.QuoteEmpty, nil
	}
	return 0, fmt.Errorf("--quoting must be minimal, always, non-numeric, or empty, got %q", value)
}

func parseTerminator(value string) (csv.LineTerminator, error) {
	switch strings.ToLower(value) {
	case "crlf":
		return csv.TerminateCRLF, nil
	case "cr":
		return csv.TerminateCR, nil
	case "lf":
		return csv.TerminateLF, nil
	}
	return 0, fmt.Errorf("--terminator must be crlf, cr, or lf, got %q", value)
}
