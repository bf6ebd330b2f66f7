package csv

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const writerBufferSize = 1 << 10

// Writer emits CSV records to an underlying sink, applying the
// configured quoting strategy per field. Output is buffered; call
// Flush before inspecting the sink. Not safe for concurrent use.
//
// The writer never inserts whitespace between a quote character and
// the adjacent separator or line terminator.
type Writer struct {
	dst  *bufio.Writer
	opts WriterOptions
	err  error
}

// NewWriter returns a Writer appending to w. The options are
// validated once here and never change afterwards.
func NewWriter(w io.Writer, opts WriterOptions) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		dst:  bufio.NewWriterSize(w, writerBufferSize),
		opts: opts,
	}, nil
}

// Write emits one record followed by the configured line terminator.
func (w *Writer) Write(record []string) error {
	if w.err != nil {
		return w.err
	}
	for i, text := range record {
		if i > 0 {
			if err := w.writeRune(w.opts.Comma); err != nil {
				return err
			}
		}
		if err := w.writeField(text, false); err != nil {
			return err
		}
	}
	return w.writeTerminator()
}

// WriteNullable emits one record in which a nil entry is an absent
// value. Absent values always render as bare empty fields, so with
// QuoteEmpty they remain distinguishable from quoted empty text.
func (w *Writer) WriteNullable(record []*string) error {
	if w.err != nil {
		return w.err
	}
	for i, text := range record {
		if i > 0 {
			if err := w.writeRune(w.opts.Comma); err != nil {
				return err
			}
		}
		var err error
		if text == nil {
			err = w.writeField("", true)
		} else {
			err = w.writeField(*text, false)
		}
		if err != nil {
			return err
		}
	}
	return w.writeTerminator()
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteComment writes text as comment lines. The text is split on
// line breaks and every resulting line is independently prefixed with
// the comment character and terminated. Comment content is never
// quoted or escaped, even if it contains the separator or quote
// character.
func (w *Writer) WriteComment(text string) error {
	if w.err != nil {
		return w.err
	}
	for _, line := range splitLines(text) {
		if err := w.writeRune(w.opts.Comment); err != nil {
			return err
		}
		if err := w.writeString(line); err != nil {
			return err
		}
		if err := w.writeTerminator(); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered output to the underlying sink.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	return w.err
}

// writeField renders one field, deciding quoting per the configured
// strategy.
func (w *Writer) writeField(text string, null bool) error {
	if w.needsQuote(text, null) {
		return w.writeQuoted(text)
	}
	return w.writeString(text)
}

// needsQuote applies the quoting strategy. Fields containing the
// separator, quote character, or a line terminator are quoted under
// every strategy, since leaving them bare would corrupt the output.
func (w *Writer) needsQuote(text string, null bool) bool {
	switch w.opts.Quoting {
	case QuoteAlways:
		return true
	case QuoteNonNumeric:
		if !null && !isNumeric(text) {
			return true
		}
	case QuoteEmpty:
		if !null && text == "" {
			return true
		}
	}
	return strings.ContainsRune(text, w.opts.Comma) ||
		strings.ContainsRune(text, w.opts.Quote) ||
		strings.ContainsAny(text, "\r\n")
}

// writeQuoted writes text wrapped in quote characters, doubling every
// embedded quote character.
func (w *Writer) writeQuoted(text string) error {
	if err := w.writeRune(w.opts.Quote); err != nil {
		return err
	}
	start := 0
	for i, c := range text {
		if c != w.opts.Quote {
			continue
		}
		if err := w.writeString(text[start:i]); err != nil {
			return err
		}
		if err := w.writeRune(w.opts.Quote); err != nil {
			return err
		}
		start = i
	}
	if err := w.writeString(text[start:]); err != nil {
		return err
	}
	return w.writeRune(w.opts.Quote)
}

func (w *Writer) writeTerminator() error {
	return w.writeString(w.opts.Terminator.Sequence())
}

func (w *Writer) writeString(s string) error {
	if _, err := w.dst.WriteString(s); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) writeRune(c rune) error {
	if _, err := w.dst.WriteRune(c); err != nil {
		w.err = err
		return err
	}
	return nil
}

// isNumeric reports whether text is a valid numeric literal.
func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

// splitLines splits on CR, LF, and CRLF. The result always has at
// least one element: splitting "" yields [""].
func splitLines(s string) []string {
	lines := make([]string, 0, 1)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
