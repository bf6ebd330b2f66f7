package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/stream-csv/pkg/csv"
)

func TestParseRune(t *testing.T) {
	tests := []struct {
		value   string
		want    rune
		wantErr bool
	}{
		{value: ",", want: ','},
		{value: ";", want: ';'},
		{value: `\t`, want: '\t'},
		{value: "tab", want: '\t'},
		{value: "é", want: 'é'},
		{value: "", wantErr: true},
		{value: "ab", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseRune("comma", tt.value)
		if tt.wantErr {
			assert.Error(t, err, "value %q", tt.value)
			continue
		}
		require.NoError(t, err, "value %q", tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseModes(t *testing.T) {
	mode, err := parseCommentMode("Skip")
	require.NoError(t, err)
	assert.Equal(t, csv.CommentSkip, mode)
	_, err = parseCommentMode("bogus")
	assert.Error(t, err)

	quoting, err := parseQuoteMode("non-numeric")
	require.NoError(t, err)
	assert.Equal(t, csv.QuoteNonNumeric, quoting)
	_, err = parseQuoteMode("bogus")
	assert.Error(t, err)

	term, err := parseTerminator("lf")
	require.NoError(t, err)
	assert.Equal(t, csv.TerminateLF, term)
	_, err = parseTerminator("bogus")
	assert.Error(t, err)
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunConvert(t *testing.T) {
	input := writeTempFile(t, "#header comment\r\na,b\r\nc,\"d,d\"\r\n")
	output := filepath.Join(t.TempDir(), "out.csv")

	convertFlags.inComma = ","
	convertFlags.outComma = ";"
	convertFlags.quote = `"`
	convertFlags.comment = "#"
	convertFlags.comments = "read"
	convertFlags.quoting = "minimal"
	convertFlags.terminator = "lf"
	convertFlags.keepEmpty = false
	convertFlags.bom = false
	convertFlags.output = output

	require.NoError(t, runConvert(convertCmd, []string{input}))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "#header comment\na;b\nc;d,d\n", string(got))
}

func TestRunCheck(t *testing.T) {
	input := writeTempFile(t, "a,b\r\nc,d\r\n")

	checkFlags.comma = ","
	checkFlags.quote = `"`
	checkFlags.comment = "#"
	checkFlags.comments = "none"
	checkFlags.strict = true
	checkFlags.bom = false

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	require.NoError(t, runCheck(checkCmd, []string{input}))
	assert.Equal(t, "ok: 2 records, 4 fields\n", out.String())
}

func TestRunCheckStrictFailure(t *testing.T) {
	input := writeTempFile(t, "a,b\r\nc\r\n")

	checkFlags.comma = ","
	checkFlags.quote = `"`
	checkFlags.comment = "#"
	checkFlags.comments = "none"
	checkFlags.strict = true
	checkFlags.bom = false

	checkCmd.SetOut(&bytes.Buffer{})
	err := runCheck(checkCmd, []string{input})
	assert.ErrorIs(t, err, csv.ErrFieldCount)
}

func TestRunSniff(t *testing.T) {
	input := writeTempFile(t, "a;b\nc;d\n")

	var out bytes.Buffer
	sniffCmd.SetOut(&out)
	require.NoError(t, runSniff(sniffCmd, []string{input}))
	assert.Equal(t, "separator: ;\nterminator: lf\n", out.String())
}
