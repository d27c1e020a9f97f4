// Package encoding normalizes raw GEO document bytes into UTF-8 JSON text.
//
// Houdini writes .geo files as plain UTF-8, but documents that went through
// other tools may be gzip-compressed (.geo.gz), carry a UTF-8 byte order mark,
// or be re-saved as UTF-16. All of these are accepted here.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether data starts with the gzip magic bytes.
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// NewReader returns a reader yielding UTF-8 text from r.
// Gzip input is decompressed first. A leading byte order mark selects
// UTF-8 or UTF-16 decoding and is dropped; without one, UTF-8 is assumed.
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading document header: %w", err)
	}

	var src io.Reader = br
	if IsGzip(head) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		src = zr
	}

	return transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
}

// Decode returns data as UTF-8 text, applying the same rules as NewReader.
// Plain UTF-8 input without a byte order mark is returned unchanged.
func Decode(data []byte) ([]byte, error) {
	if !IsGzip(data) && !hasBOM(data) {
		return data, nil
	}

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return out, nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xef, 0xbb, 0xbf}) ||
		bytes.HasPrefix(data, []byte{0xfe, 0xff}) ||
		bytes.HasPrefix(data, []byte{0xff, 0xfe})
}
