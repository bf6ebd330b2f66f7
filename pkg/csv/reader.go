package csv

import (
	"errors"
	"io"

	"github.com/shapestone/stream-csv/internal/decode"
	"github.com/shapestone/stream-csv/internal/scanner"
)

// Reader assembles the scanner's token stream into Records and
// applies the comment, empty-line, and field-count policies.
//
// Records are produced lazily, one per Read call, in strictly
// increasing ordinal order. The Reader holds at most one record's
// worth of state, so memory use is bounded by the largest single
// field, not the input size. Not safe for concurrent use.
type Reader struct {
	sc   *scanner.Scanner
	opts ReaderOptions

	ordinal  int64
	baseline int // field count of the first data record; -1 until seen
	err      error
}

// NewReader returns a Reader consuming CSV text from r. The options
// are validated once here and never change afterwards.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	in, err := decode.NewReader(r, decode.Options{
		DetectBOM: opts.DetectBOM,
		Charset:   opts.Charset,
	})
	if err != nil {
		return nil, err
	}
	sc := scanner.New(in, scanner.Config{
		Separator: opts.Comma,
		Quote:     opts.Quote,
		Comment:   opts.Comment,
		Comments:  opts.CommentMode != CommentNone,
	})
	return &Reader{sc: sc, opts: opts, baseline: -1}, nil
}

// Read returns the next record. It returns io.EOF when the input is
// exhausted. Any other error is fatal: subsequent calls return the
// same error and the offending record is never yielded.
func (r *Reader) Read() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	for {
		tok, err := r.sc.Next()
		if err != nil {
			return Record{}, r.fail(wrapScanError(err, tokenStartLine(err)))
		}

		switch tok.Kind {
		case scanner.KindEOF:
			r.err = io.EOF
			return Record{}, io.EOF

		case scanner.KindComment:
			if r.opts.CommentMode == CommentSkip {
				continue
			}
			r.ordinal++
			return Record{
				Fields:    []Field{{Text: tok.Text}},
				Ordinal:   r.ordinal,
				StartLine: tok.Line,
				Comment:   true,
			}, nil

		case scanner.KindEOL:
			// A line with zero fields, not even an empty one.
			if r.opts.SkipEmptyLines {
				continue
			}
			return r.finish([]Field{{}}, tok.Line)

		case scanner.KindField:
			return r.assemble(tok)
		}
	}
}

// assemble collects the remaining fields of the record whose first
// field token is given.
func (r *Reader) assemble(first scanner.Token) (Record, error) {
	startLine := first.Line
	fields := []Field{{Text: first.Text, Quoted: first.Quoted}}
	for {
		tok, err := r.sc.Next()
		if err != nil {
			return Record{}, r.fail(wrapScanError(err, startLine))
		}
		switch tok.Kind {
		case scanner.KindField:
			fields = append(fields, Field{Text: tok.Text, Quoted: tok.Quoted})
		default:
			// The scanner closes every open record with an EOL before
			// reporting EOF, so this is always a line boundary.
			return r.finish(fields, startLine)
		}
	}
}

// finish applies the field-count policy and assigns the ordinal.
// Comments never pass through here and never establish the baseline.
func (r *Reader) finish(fields []Field, startLine int64) (Record, error) {
	if r.baseline < 0 {
		r.baseline = len(fields)
	} else if r.opts.FieldCount == FieldCountStrict && len(fields) != r.baseline {
		return Record{}, r.fail(&FieldCountError{
			Line:     startLine,
			Expected: r.baseline,
			Actual:   len(fields),
		})
	}
	r.ordinal++
	return Record{Fields: fields, Ordinal: r.ordinal, StartLine: startLine}, nil
}

// ReadAll exhausts the stream, collecting every record until io.EOF.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadInto drives a RecordHandler with every remaining record,
// invoking BeginRecord, AddField per field, and EndRecord in order.
// It stops at io.EOF (returning nil) or at the first error.
func (r *Reader) ReadInto(h RecordHandler) error {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		h.BeginRecord(rec.StartLine)
		for _, f := range rec.Fields {
			h.AddField(f.Text, f.Quoted)
		}
		h.EndRecord(rec.Comment)
	}
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

// wrapScanError converts scanner errors into ParseErrors carrying the
// record's starting line. I/O errors pass through unchanged.
func wrapScanError(err error, recordLine int64) error {
	var se *scanner.Error
	if errors.As(err, &se) {
		line := recordLine
		if line == 0 {
			line = se.Line
		}
		return &ParseError{Line: line, Err: se.Err}
	}
	return err
}

// tokenStartLine extracts the line from a scanner error when no
// record context exists yet.
func tokenStartLine(err error) int64 {
	var se *scanner.Error
	if errors.As(err, &se) {
		return se.Line
	}
	return 0
}
