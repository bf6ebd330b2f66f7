// Package decode adapts a raw byte stream into the UTF-8 character
// stream the scanner consumes. It can recognize and strip a leading
// Unicode byte-order mark and transcode from a caller-supplied
// charset. Malformed input fails the stream with ErrInvalidEncoding
// instead of being substituted with replacement characters.
package decode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding reports a byte sequence that is not valid for
// the detected or configured encoding.
var ErrInvalidEncoding = errors.New("invalid byte sequence")

// Byte-order marks, longest first. The UTF-32LE mark begins with the
// UTF-16LE mark, so the 4-byte sequences must be checked before the
// 2-byte ones.
var (
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Options configures the input adapter.
type Options struct {
	// DetectBOM enables byte-order-mark sniffing. When a known mark is
	// found it is stripped and overrides Charset.
	DetectBOM bool

	// Charset decodes the input when no BOM applies.
	// nil means the input is already UTF-8.
	Charset encoding.Encoding
}

// NewReader wraps r so that the returned reader yields UTF-8 text.
// The stream position after the call is past any stripped mark.
func NewReader(r io.Reader, opts Options) (io.Reader, error) {
	br := bufio.NewReader(r)
	if !opts.DetectBOM {
		return transcode(br, opts.Charset), nil
	}

	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, bomUTF32LE):
		discard(br, 4)
		return transform.NewReader(br, utf32Decoder{}), nil
	case bytes.HasPrefix(head, bomUTF32BE):
		discard(br, 4)
		return transform.NewReader(br, utf32Decoder{bigEndian: true}), nil
	case bytes.HasPrefix(head, bomUTF8):
		discard(br, 3)
		// The mark overrides any charset hint; the rest is UTF-8.
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		discard(br, 2)
		return transform.NewReader(br, utf16Decoder{}), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		discard(br, 2)
		return transform.NewReader(br, utf16Decoder{bigEndian: true}), nil
	}

	return transcode(br, opts.Charset), nil
}

// transcode wraps r with a decoder for enc. A nil encoding passes the
// stream through untouched. Decoders from x/text substitute U+FFFD
// for input they cannot decode rather than rejecting it, so the
// decoded stream is additionally screened for substitutions.
func transcode(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return r
	}
	return transform.NewReader(r, transform.Chain(enc.NewDecoder(), rejectReplacement{}))
}

func discard(br *bufio.Reader, n int) {
	// The bytes were just peeked, so Discard cannot fail here.
	_, _ = br.Discard(n)
}

// utf16Decoder converts UTF-16 code units to UTF-8. Unlike the x/text
// decoder it rejects truncated code units and unpaired surrogates
// with ErrInvalidEncoding instead of substituting U+FFFD, so a
// genuine replacement character in the input still passes through.
type utf16Decoder struct {
	bigEndian bool
}

func (utf16Decoder) Reset() {}

func (d utf16Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nSrc+2 > len(src) {
			if atEOF {
				return nDst, nSrc, ErrInvalidEncoding
			}
			return nDst, nSrc, transform.ErrShortSrc
		}
		r := rune(d.unit(src[nSrc:]))
		size := 2
		if utf16.IsSurrogate(r) {
			if nSrc+4 > len(src) {
				if atEOF {
					return nDst, nSrc, ErrInvalidEncoding
				}
				return nDst, nSrc, transform.ErrShortSrc
			}
			r = utf16.DecodeRune(r, rune(d.unit(src[nSrc+2:])))
			if r == utf8.RuneError {
				return nDst, nSrc, ErrInvalidEncoding
			}
			size = 4
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

func (d utf16Decoder) unit(b []byte) uint16 {
	if d.bigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

// utf32Decoder converts UTF-32 code units to UTF-8, rejecting
// truncated units, surrogate code points, and out-of-range values
// with ErrInvalidEncoding.
type utf32Decoder struct {
	bigEndian bool
}

func (utf32Decoder) Reset() {}

func (d utf32Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nSrc+4 > len(src) {
			if atEOF {
				return nDst, nSrc, ErrInvalidEncoding
			}
			return nDst, nSrc, transform.ErrShortSrc
		}
		v := d.unit(src[nSrc:])
		if v > 0x10FFFF || (v >= 0xD800 && v < 0xE000) {
			return nDst, nSrc, ErrInvalidEncoding
		}
		r := rune(v)
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += 4
	}
	return nDst, nSrc, nil
}

func (d utf32Decoder) unit(b []byte) uint32 {
	if d.bigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// rejectReplacement fails the stream on any U+FFFD in the decoded
// output. A charset decoder signals undecodable input by substituting
// the replacement character, so after this screen every decode error
// is fatal. The cost is that a replacement character literally
// present in charset-decoded input is also rejected.
type rejectReplacement struct{}

func (rejectReplacement) Reset() {}

func (rejectReplacement) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError {
			return nDst, nSrc, ErrInvalidEncoding
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], src[nSrc:nSrc+size])
		nDst += size
		nSrc += size
	}
	return nDst, nSrc, nil
}
