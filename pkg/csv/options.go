package csv

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// CommentMode controls how lines beginning with the comment character
// are interpreted during reading.
type CommentMode int

const (
	// CommentNone treats the comment character as ordinary content.
	CommentNone CommentMode = iota
	// CommentRead yields comment lines as records with the Comment
	// flag set and a single field holding the comment text.
	CommentRead
	// CommentSkip consumes and discards comment lines.
	CommentSkip
)

// String returns the string representation of CommentMode.
func (m CommentMode) String() string {
	switch m {
	case CommentNone:
		return "none"
	case CommentRead:
		return "read"
	case CommentSkip:
		return "skip"
	default:
		return fmt.Sprintf("CommentMode(%d)", int(m))
	}
}

// FieldCountMode controls whether records whose field count differs
// from the first data record are accepted or rejected.
type FieldCountMode int

const (
	// FieldCountIgnore accepts any field count per record.
	FieldCountIgnore FieldCountMode = iota
	// FieldCountStrict fails with a FieldCountError the moment a
	// record's field count differs from the first data record's.
	FieldCountStrict
)

// String returns the string representation of FieldCountMode.
func (m FieldCountMode) String() string {
	switch m {
	case FieldCountIgnore:
		return "ignore"
	case FieldCountStrict:
		return "strict"
	default:
		return fmt.Sprintf("FieldCountMode(%d)", int(m))
	}
}

// QuoteMode is the policy deciding which fields the writer wraps in
// quote characters.
type QuoteMode int

const (
	// QuoteMinimal quotes only fields containing the separator, the
	// quote character, CR, or LF.
	QuoteMinimal QuoteMode = iota
	// QuoteAlways quotes every field unconditionally.
	QuoteAlways
	// QuoteNonNumeric quotes every field whose text is not a valid
	// numeric literal.
	QuoteNonNumeric
	// QuoteEmpty quotes only fields that are empty or absent, making
	// them distinguishable from unquoted empty fields on read.
	QuoteEmpty
)

// String returns the string representation of QuoteMode.
func (m QuoteMode) String() string {
	switch m {
	case QuoteMinimal:
		return "minimal"
	case QuoteAlways:
		return "always"
	case QuoteNonNumeric:
		return "non-numeric"
	case QuoteEmpty:
		return "empty"
	default:
		return fmt.Sprintf("QuoteMode(%d)", int(m))
	}
}

// LineTerminator selects the sequence the writer appends after each
// record and comment line. Reading always auto-detects.
type LineTerminator int

const (
	// TerminateCRLF emits \r\n (default).
	TerminateCRLF LineTerminator = iota
	// TerminateCR emits \r.
	TerminateCR
	// TerminateLF emits \n.
	TerminateLF
)

// Sequence returns the terminator bytes.
func (t LineTerminator) Sequence() string {
	switch t {
	case TerminateCR:
		return "\r"
	case TerminateLF:
		return "\n"
	default:
		return "\r\n"
	}
}

// String returns the string representation of LineTerminator.
func (t LineTerminator) String() string {
	switch t {
	case TerminateCRLF:
		return "crlf"
	case TerminateCR:
		return "cr"
	case TerminateLF:
		return "lf"
	default:
		return fmt.Sprintf("LineTerminator(%d)", int(t))
	}
}

// ReaderOptions configures CSV reading. Construct once per Reader;
// the Reader never mutates it.
type ReaderOptions struct {
	// Comma is the field separator. Default: ','
	Comma rune

	// Quote is the quote character. Default: '"'
	Quote rune

	// Comment is the comment character. Only meaningful when
	// CommentMode is CommentRead or CommentSkip. Default: '#'
	Comment rune

	// CommentMode selects comment handling. Default: CommentNone
	CommentMode CommentMode

	// FieldCount selects field-count validation. Default:
	// FieldCountIgnore
	FieldCount FieldCountMode

	// SkipEmptyLines drops lines that tokenize to zero fields. When
	// false such lines yield a record with a single empty field.
	// Default: true
	SkipEmptyLines bool

	// DetectBOM enables byte-order-mark sniffing (UTF-8, UTF-16LE/BE,
	// UTF-32LE/BE). Default: false
	DetectBOM bool

	// Charset decodes the input when set and no BOM overrides it.
	// nil means UTF-8.
	Charset encoding.Encoding
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Comma:          ',',
		Quote:          '"',
		Comment:        '#',
		CommentMode:    CommentNone,
		FieldCount:     FieldCountIgnore,
		SkipEmptyLines: true,
		DetectBOM:      false,
	}
}

// Validate checks the reader options.
func (o ReaderOptions) Validate() error {
	return validateChars(o.Comma, o.Quote, o.Comment)
}

// WriterOptions configures CSV writing. Construct once per Writer;
// the Writer never mutates it.
type WriterOptions struct {
	// Comma is the field separator. Default: ','
	Comma rune

	// Quote is the quote character. Default: '"'
	Quote rune

	// Comment is the character prefixed to comment lines. Default: '#'
	Comment rune

	// Quoting selects the quoting strategy. Default: QuoteMinimal
	Quoting QuoteMode

	// Terminator is appended after every record and comment line.
	// Default: TerminateCRLF
	Terminator LineTerminator
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Comma:      ',',
		Quote:      '"',
		Comment:    '#',
		Quoting:    QuoteMinimal,
		Terminator: TerminateCRLF,
	}
}

// Validate checks the writer options.
func (o WriterOptions) Validate() error {
	return validateChars(o.Comma, o.Quote, o.Comment)
}

// validDelim reports whether r can serve as a control character.
func validDelim(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// validateChars enforces that the three control characters are valid
// and pairwise distinct.
func validateChars(comma, quote, comment rune) error {
	if !validDelim(comma) {
		return &OptionsError{Field: "Comma", Message: "invalid separator"}
	}
	if !validDelim(quote) {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if !validDelim(comment) {
		return &OptionsError{Field: "Comment", Message: "invalid comment character"}
	}
	if quote == comma {
		return &OptionsError{Field: "Quote", Message: "quote character same as separator"}
	}
	if comment == comma {
		return &OptionsError{Field: "Comment", Message: "comment character same as separator"}
	}
	if comment == quote {
		return &OptionsError{Field: "Comment", Message: "comment character same as quote character"}
	}
	return nil
}
