// Package scanner implements the character-level CSV tokenizer.
//
// The scanner consumes a UTF-8 stream exactly once, character by
// character, and emits a flat token stream: field tokens carrying the
// unescaped text plus a quoted flag, comment tokens carrying a whole
// comment line, end-of-line tokens, and a final end-of-file token.
// Grouping tokens into records and applying policies is the caller's
// job.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shapestone/stream-csv/internal/decode"
)

// Kind identifies a token produced by the scanner.
type Kind int

const (
	// KindField is a single field value, unescaped.
	KindField Kind = iota
	// KindComment is the payload of a comment line, without the
	// comment character and without the line terminator.
	KindComment
	// KindEOL marks the end of a line. A KindEOL with no preceding
	// KindField tokens since the last KindEOL is an empty line.
	KindEOL
	// KindEOF marks the end of the stream. Emitted indefinitely once
	// the stream is exhausted.
	KindEOF
)

// Token is one unit of scanner output. Line is the 1-based physical
// line on which the token started.
type Token struct {
	Kind   Kind
	Text   string
	Quoted bool
	Line   int64
}

// ErrUnterminatedQuote reports a stream that ends inside a quoted
// field. It is surfaced through *Error, as are encoding failures,
// which carry decode.ErrInvalidEncoding.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// Error is a scan failure with the physical line it was detected on.
// For ErrUnterminatedQuote the line is where the open field started.
type Error struct {
	Line int64
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config carries the characters the scanner keys on. Separator,
// Quote, and Comment must be pairwise distinct; the caller validates
// that before constructing a Scanner.
type Config struct {
	Separator rune
	Quote     rune
	Comment   rune
	// Comments enables comment-line capture. When false the comment
	// character has no special meaning.
	Comments bool
}

// Field states. A field begins in stateStart; the very first
// character decides permanently whether it is quoted.
const (
	stateStart = iota
	stateUnquoted
	stateQuoted
	stateQuoteInQuoted
	stateTrailing
)

// Scanner turns a character stream into tokens. Not safe for
// concurrent use.
type Scanner struct {
	r   *bufio.Reader
	cfg Config

	// field is the reusable scratch buffer for the current field.
	// Token text is always copied out of it, so reuse is purely an
	// allocation optimization.
	field []byte

	line           int64
	afterSep       bool
	pendingEOL     bool
	pendingEOLLine int64
	done           bool
	err            error
}

// New returns a Scanner reading UTF-8 text from r.
func New(r io.Reader, cfg Config) *Scanner {
	return &Scanner{
		r:     bufio.NewReader(r),
		cfg:   cfg,
		field: make([]byte, 0, 64),
		line:  1,
	}
}

// Line returns the current 1-based physical line number.
func (s *Scanner) Line() int64 {
	return s.line
}

// Next returns the next token. Once it has returned an error it
// returns the same error forever; once it has returned KindEOF it
// keeps doing so.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	if s.pendingEOL {
		s.pendingEOL = false
		s.afterSep = false
		return Token{Kind: KindEOL, Line: s.pendingEOLLine}, nil
	}
	if s.done {
		return Token{Kind: KindEOF, Line: s.line}, nil
	}
	return s.scanField()
}

// scanField runs the state machine for one field (or one comment
// line, or a bare line terminator). Every character is consumed
// exactly once.
func (s *Scanner) scanField() (Token, error) {
	tokenLine := s.line
	s.field = s.field[:0]
	state := stateStart
	quoted := false

	for {
		c, ok, err := s.readRune()
		if err != nil {
			return Token{}, s.fail(err)
		}
		if !ok {
			return s.finishAtEOF(state, tokenLine, quoted)
		}

		switch state {
		case stateStart:
			switch {
			case s.cfg.Comments && !s.afterSep && c == s.cfg.Comment:
				return s.scanComment(tokenLine)
			case c == s.cfg.Quote:
				state = stateQuoted
				quoted = true
			case c == s.cfg.Separator:
				s.afterSep = true
				return s.emit(tokenLine, false), nil
			case c == '\r' || c == '\n':
				eolLine := s.line
				s.consumeLineEnd(c)
				if s.afterSep {
					// "a," ends with an empty trailing field.
					s.queueEOL(eolLine)
					return s.emit(tokenLine, false), nil
				}
				return Token{Kind: KindEOL, Line: eolLine}, nil
			default:
				state = stateUnquoted
				s.append(c)
			}

		case stateUnquoted:
			switch {
			case c == s.cfg.Separator:
				s.afterSep = true
				return s.emit(tokenLine, false), nil
			case c == '\r' || c == '\n':
				eolLine := s.line
				s.consumeLineEnd(c)
				s.queueEOL(eolLine)
				return s.emit(tokenLine, false), nil
			default:
				// Quote characters past the first position are
				// ordinary content.
				s.append(c)
			}

		case stateQuoted:
			switch {
			case c == s.cfg.Quote:
				state = stateQuoteInQuoted
			case c == '\r':
				// Embedded terminators are preserved byte for byte;
				// CRLF still counts as a single physical line.
				s.append('\r')
				if s.peekConsume('\n') {
					s.append('\n')
				}
				s.line++
			case c == '\n':
				s.append('\n')
				s.line++
			default:
				s.append(c)
			}

		case stateQuoteInQuoted:
			switch {
			case c == s.cfg.Quote:
				// Doubled quote is an escaped literal quote.
				s.append(s.cfg.Quote)
				state = stateQuoted
			case c == s.cfg.Separator:
				s.afterSep = true
				return s.emit(tokenLine, true), nil
			case c == '\r' || c == '\n':
				eolLine := s.line
				s.consumeLineEnd(c)
				s.queueEOL(eolLine)
				return s.emit(tokenLine, true), nil
			default:
				// The field is closed but content follows the
				// closing quote; it is kept, not discarded.
				state = stateTrailing
				s.append(c)
			}

		case stateTrailing:
			switch {
			case c == s.cfg.Separator:
				s.afterSep = true
				return s.emit(tokenLine, true), nil
			case c == '\r' || c == '\n':
				eolLine := s.line
				s.consumeLineEnd(c)
				s.queueEOL(eolLine)
				return s.emit(tokenLine, true), nil
			default:
				s.append(c)
			}
		}
	}
}

// finishAtEOF resolves the current field state when the stream ends.
func (s *Scanner) finishAtEOF(state int, tokenLine int64, quoted bool) (Token, error) {
	switch state {
	case stateStart:
		if s.afterSep {
			// Input ended right after a separator: one empty field
			// closes the record.
			s.done = true
			s.queueEOL(s.line)
			return s.emit(tokenLine, false), nil
		}
		s.done = true
		return Token{Kind: KindEOF, Line: s.line}, nil
	case stateQuoted:
		return Token{}, s.fail(&Error{Line: tokenLine, Err: ErrUnterminatedQuote})
	case stateQuoteInQuoted:
		quoted = true
	}
	s.done = true
	s.queueEOL(s.line)
	return s.emit(tokenLine, quoted), nil
}

// scanComment captures the remainder of the physical line verbatim.
// Separator and quote characters have no meaning inside a comment.
func (s *Scanner) scanComment(tokenLine int64) (Token, error) {
	s.field = s.field[:0]
	for {
		c, ok, err := s.readRune()
		if err != nil {
			return Token{}, s.fail(err)
		}
		if !ok {
			s.done = true
			break
		}
		if c == '\r' || c == '\n' {
			s.consumeLineEnd(c)
			break
		}
		s.append(c)
	}
	return Token{Kind: KindComment, Text: string(s.field), Line: tokenLine}, nil
}

func (s *Scanner) emit(line int64, quoted bool) Token {
	return Token{Kind: KindField, Text: string(s.field), Quoted: quoted, Line: line}
}

func (s *Scanner) queueEOL(line int64) {
	s.pendingEOL = true
	s.pendingEOLLine = line
}

func (s *Scanner) append(c rune) {
	s.field = utf8.AppendRune(s.field, c)
}

// consumeLineEnd advances past a line terminator whose first
// character c has already been read. CR, LF, and CRLF all count as
// one terminator.
func (s *Scanner) consumeLineEnd(c rune) {
	if c == '\r' {
		s.peekConsume('\n')
	}
	s.line++
}

// peekConsume consumes the next rune if it equals want. Read errors
// are left in place to resurface on the next readRune call.
func (s *Scanner) peekConsume(want rune) bool {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return false
	}
	if c != want {
		_ = s.r.UnreadRune()
		return false
	}
	return true
}

// readRune returns the next character, reporting EOF through ok.
// Malformed input, whether flagged by the input adapter or seen here
// as raw invalid UTF-8, surfaces as an *Error carrying
// decode.ErrInvalidEncoding and the current line.
func (s *Scanner) readRune() (c rune, ok bool, err error) {
	c, size, err := s.r.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if errors.Is(err, decode.ErrInvalidEncoding) {
		return 0, false, &Error{Line: s.line, Err: decode.ErrInvalidEncoding}
	}
	if err != nil {
		return 0, false, err
	}
	if c == utf8.RuneError && size == 1 {
		return 0, false, &Error{Line: s.line, Err: decode.ErrInvalidEncoding}
	}
	return c, true, nil
}

func (s *Scanner) fail(err error) error {
	s.err = err
	return err
}
