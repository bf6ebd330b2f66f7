package csv

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*ReaderOptions)
		wantField string
	}{
		{name: "defaults", mutate: func(*ReaderOptions) {}},
		{name: "zeroComma", mutate: func(o *ReaderOptions) { o.Comma = 0 }, wantField: "Comma"},
		{name: "newlineComma", mutate: func(o *ReaderOptions) { o.Comma = '\n' }, wantField: "Comma"},
		{name: "carriageReturnQuote", mutate: func(o *ReaderOptions) { o.Quote = '\r' }, wantField: "Quote"},
		{name: "runeErrorComment", mutate: func(o *ReaderOptions) { o.Comment = utf8.RuneError }, wantField: "Comment"},
		{name: "quoteEqualsComma", mutate: func(o *ReaderOptions) { o.Quote = ',' }, wantField: "Quote"},
		{name: "commentEqualsComma", mutate: func(o *ReaderOptions) { o.Comment = ',' }, wantField: "Comment"},
		{name: "commentEqualsQuote", mutate: func(o *ReaderOptions) { o.Comment = '"' }, wantField: "Comment"},
		{name: "semicolonComma", mutate: func(o *ReaderOptions) { o.Comma = ';' }},
		{name: "tabComma", mutate: func(o *ReaderOptions) { o.Comma = '\t' }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultReaderOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var oe *OptionsError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, tt.wantField, oe.Field)
		})
	}
}

func TestWriterOptionsValidate(t *testing.T) {
	t.Parallel()

	opts := DefaultWriterOptions()
	assert.NoError(t, opts.Validate())

	opts.Quote = opts.Comma
	var oe *OptionsError
	require.ErrorAs(t, opts.Validate(), &oe)
	assert.Equal(t, "Quote", oe.Field)
}

func TestModeStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", CommentNone.String())
	assert.Equal(t, "read", CommentRead.String())
	assert.Equal(t, "skip", CommentSkip.String())
	assert.Equal(t, "ignore", FieldCountIgnore.String())
	assert.Equal(t, "strict", FieldCountStrict.String())
	assert.Equal(t, "minimal", QuoteMinimal.String())
	assert.Equal(t, "always", QuoteAlways.String())
	assert.Equal(t, "non-numeric", QuoteNonNumeric.String())
	assert.Equal(t, "empty", QuoteEmpty.String())
	assert.Equal(t, "crlf", TerminateCRLF.String())
	assert.Equal(t, "CommentMode(99)", CommentMode(99).String())
}

func TestTerminatorSequences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\r\n", TerminateCRLF.Sequence())
	assert.Equal(t, "\r", TerminateCR.Sequence())
	assert.Equal(t, "\n", TerminateLF.Sequence())
}
