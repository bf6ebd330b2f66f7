// Package csv implements a streaming CSV codec: a pull-based Reader
// that turns a character stream into a lazy sequence of records, and
// a push-based Writer that turns records back into correctly quoted
// and escaped text.
//
// The reader and writer agree on quoting semantics, so a
// write-then-read round trip preserves field text and order. Reading
// auto-detects CR, LF, and CRLF line terminators per line; writing
// always emits the single configured terminator. Quote doubling is
// the only escape mechanism.
//
// # Reading
//
//	r, err := csv.NewReader(file, csv.DefaultReaderOptions())
//	if err != nil {
//	    // handle error
//	}
//	for {
//	    rec, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // use rec.Fields
//	}
//
// # Writing
//
//	w, err := csv.NewWriter(file, csv.DefaultWriterOptions())
//	if err != nil {
//	    // handle error
//	}
//	w.Write([]string{"name", "age"})
//	w.Write([]string{"Alice", "30"})
//	w.Flush()
//
// # Thread safety
//
// A Reader or Writer holds mutable scan/encode state and is not safe
// for concurrent use. Use one instance per stream.
package csv

import (
	"strings"
)

// ReadAllString parses a complete CSV document from a string.
func ReadAllString(input string, opts ReaderOptions) ([]Record, error) {
	r, err := NewReader(strings.NewReader(input), opts)
	if err != nil {
		return nil, err
	}
	return r.ReadAll()
}

// WriteAllString renders records to a CSV string.
func WriteAllString(records [][]string, opts WriterOptions) (string, error) {
	var sb strings.Builder
	w, err := NewWriter(&sb, opts)
	if err != nil {
		return "", err
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
