package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/stream-csv/pkg/csv"
)

var convertFlags struct {
	inComma    string
	outComma   string
	quote      string
	comment    string
	comments   string
	quoting    string
	terminator string
	keepEmpty  bool
	bom        bool
	output     string
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Re-emit a CSV stream in another dialect",
	Long: `Reads CSV from a file or stdin and writes it to a file or stdout
with a different separator, quoting strategy, or line terminator.
Comment lines are passed through when --comments=read and dropped
when --comments=skip.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertFlags.inComma, "in-comma", ",", "input field separator")
	f.StringVar(&convertFlags.outComma, "out-comma", ",", "output field separator")
	f.StringVar(&convertFlags.quote, "quote", `"`, "quote character")
	f.StringVar(&convertFlags.comment, "comment", "#", "comment character")
	f.StringVar(&convertFlags.comments, "comments", "none", "comment handling: none, read, or skip")
	f.StringVar(&convertFlags.quoting, "quoting", "minimal", "quoting strategy: minimal, always, non-numeric, or empty")
	f.StringVar(&convertFlags.terminator, "terminator", "crlf", "output line terminator: crlf, cr, or lf")
	f.BoolVar(&convertFlags.keepEmpty, "keep-empty", false, "emit a record for each empty input line")
	f.BoolVar(&convertFlags.bom, "bom", false, "detect and strip a leading byte-order mark")
	f.StringVarP(&convertFlags.output, "output", "o", "-", "output file, - for stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ropts, wopts, err := convertOptions()
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeIn()

	var out io.Writer = os.Stdout
	if convertFlags.output != "-" {
		f, err := os.Create(convertFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	r, err := csv.NewReader(in, ropts)
	if err != nil {
		return err
	}
	w, err := csv.NewWriter(out, wopts)
	if err != nil {
		return err
	}

	records := 0
	comments := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if rec.Comment {
			text, _ := rec.Get(0)
			if err := w.WriteComment(text); err != nil {
				return err
			}
			comments++
			continue
		}
		if err := w.Write(rec.Texts()); err != nil {
			return err
		}
		records++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info("converted", "records", records, "comments", comments)
	return nil
}

func convertOptions() (csv.ReaderOptions, csv.WriterOptions, error) {
	ropts := csv.DefaultReaderOptions()
	wopts := csv.DefaultWriterOptions()

	var err error
	if ropts.Comma, err = parseRune("in-comma", convertFlags.inComma); err != nil {
		return ropts, wopts, err
	}
	if wopts.Comma, err = parseRune("out-comma", convertFlags.outComma); err != nil {
		return ropts, wopts, err
	}
	quote, err := parseRune("quote", convertFlags.quote)
	if err != nil {
		return ropts, wopts, err
	}
	ropts.Quote, wopts.Quote = quote, quote

	comment, err := parseRune("comment", convertFlags.comment)
	if err != nil {
		return ropts, wopts, err
	}
	ropts.Comment, wopts.Comment = comment, comment

	if ropts.CommentMode, err = parseCommentMode(convertFlags.comments); err != nil {
		return ropts, wopts, err
	}
	if wopts.Quoting, err = parseQuoteMode(convertFlags.quoting); err != nil {
		return ropts, wopts, err
	}
	if wopts.Terminator, err = parseTerminator(convertFlags.terminator); err != nil {
		return ropts, wopts, err
	}
	ropts.SkipEmptyLines = !convertFlags.keepEmpty
	ropts.DetectBOM = convertFlags.bom

	if err := ropts.Validate(); err != nil {
		return ropts, wopts, err
	}
	if err := wopts.Validate(); err != nil {
		return ropts, wopts, err
	}
	return ropts, wopts, nil
}
