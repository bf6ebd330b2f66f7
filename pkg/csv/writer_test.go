package csv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOne(t *testing.T, record []string, opts WriterOptions) string {
	t.Helper()
	out, err := WriteAllString([][]string{record}, opts)
	require.NoError(t, err)
	return out
}

func TestWriterQuoteMinimal(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()

	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{name: "plain", record: []string{"a", "b"}, want: "a,b\r\n"},
		{name: "empty", record: []string{"", ""}, want: ",\r\n"},
		{name: "separator", record: []string{"a,b", "c"}, want: "\"a,b\",c\r\n"},
		{name: "quote", record: []string{`say "hi"`}, want: "\"say \"\"hi\"\"\"\r\n"},
		{name: "newline", record: []string{"a\nb"}, want: "\"a\nb\"\r\n"},
		{name: "carriageReturn", record: []string{"a\rb"}, want: "\"a\rb\"\r\n"},
		{name: "crlf", record: []string{"a\r\nb"}, want: "\"a\r\nb\"\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeOne(t, tt.record, opts))
		})
	}
}

func TestWriterQuoteAlways(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Quoting = QuoteAlways

	assert.Equal(t, "\"a\",\"\",\"1\"\r\n", writeOne(t, []string{"a", "", "1"}, opts))
}

func TestWriterQuoteNonNumeric(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Quoting = QuoteNonNumeric

	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{name: "integers", record: []string{"1", "42"}, want: "1,42\r\n"},
		{name: "floats", record: []string{"12.5", "-3.0", "1e3"}, want: "12.5,-3.0,1e3\r\n"},
		{name: "text", record: []string{"abc", "7"}, want: "\"abc\",7\r\n"},
		{name: "emptyIsNotNumeric", record: []string{""}, want: "\"\"\r\n"},
		{name: "numericLookalike", record: []string{"1,2"}, want: "\"1,2\"\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeOne(t, tt.record, opts))
		})
	}
}

func TestWriterQuoteEmpty(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Quoting = QuoteEmpty

	assert.Equal(t, "a,\"\",b\r\n", writeOne(t, []string{"a", "", "b"}, opts))
	assert.Equal(t, "\"x,y\"\r\n", writeOne(t, []string{"x,y"}, opts))
}

func TestWriterNullable(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Quoting = QuoteEmpty

	var sb strings.Builder
	w, err := NewWriter(&sb, opts)
	require.NoError(t, err)

	empty := ""
	value := "v"
	require.NoError(t, w.WriteNullable([]*string{&value, nil, &empty}))
	require.NoError(t, w.Flush())

	// Absent values stay bare even under QuoteEmpty; empty text is
	// quoted. A round trip can tell them apart via Field.Quoted.
	assert.Equal(t, "v,,\"\"\r\n", sb.String())
}

func TestWriterTerminators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		terminator LineTerminator
		want       string
	}{
		{name: "crlf", terminator: TerminateCRLF, want: "a\r\nb\r\n"},
		{name: "cr", terminator: TerminateCR, want: "a\rb\r"},
		{name: "lf", terminator: TerminateLF, want: "a\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultWriterOptions()
			opts.Terminator = tt.terminator
			out, err := WriteAllString([][]string{{"a"}, {"b"}}, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestWriterComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "singleLine", text: "note", want: "#note\r\n"},
		{name: "multiLine", text: "foo\nbar", want: "#foo\r\n#bar\r\n"},
		{name: "crlfSplit", text: "foo\r\nbar", want: "#foo\r\n#bar\r\n"},
		{name: "crSplit", text: "foo\rbar", want: "#foo\r\n#bar\r\n"},
		{name: "empty", text: "", want: "#\r\n"},
		// Comment content is never quoted or escaped.
		{name: "controlChars", text: `a,"b`, want: "#a,\"b\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			w, err := NewWriter(&sb, DefaultWriterOptions())
			require.NoError(t, err)
			require.NoError(t, w.WriteComment(tt.text))
			require.NoError(t, w.Flush())
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestWriterCustomChars(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Comma = ';'
	opts.Quote = '\''

	assert.Equal(t, "'a;b';c\r\n", writeOne(t, []string{"a;b", "c"}, opts))
	assert.Equal(t, "'it''s'\r\n", writeOne(t, []string{"it's"}, opts))
}

func TestWriterNoWhitespaceAroundQuotes(t *testing.T) {
	t.Parallel()

	out := writeOne(t, []string{"a,b", "c", "d,e"}, DefaultWriterOptions())
	assert.Equal(t, "\"a,b\",c,\"d,e\"\r\n", out)
}

func TestNewWriterRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	opts.Comment = ','
	_, err := NewWriter(&strings.Builder{}, opts)

	var oe *OptionsError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "Comment", oe.Field)
}

type failingWriter struct {
	err error
}

func (f *failingWriter) Write([]byte) (int, error) {
	return 0, f.err
}

func TestWriterStickyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("pipe closed")
	w, err := NewWriter(&failingWriter{err: boom}, DefaultWriterOptions())
	require.NoError(t, err)

	// The first flush surfaces the sink error; everything after is a
	// no-op returning the same error.
	require.NoError(t, w.Write([]string{"a"}))
	require.ErrorIs(t, w.Flush(), boom)
	require.ErrorIs(t, w.Write([]string{"b"}), boom)
	require.ErrorIs(t, w.Error(), boom)
}
