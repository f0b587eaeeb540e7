// Package source loads raw exam text dumps. Dumps usually arrive as UTF-8,
// but files produced by older PDF extractors show up in Windows-1252 or
// Latin-1 with smart quotes outside the ASCII range, so decoding is
// selectable per run.
package source

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultEncoding is assumed when no source encoding is configured.
const DefaultEncoding = "utf-8"

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", name)
	}
}

// Decode converts raw dump bytes into normalized text: the requested
// character encoding is decoded to UTF-8, a leading byte-order mark is
// dropped, and CRLF line endings become LF so line-anchored patterns
// behave the same for every dump origin.
func Decode(data []byte, enc string) (string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return "", err
	}
	if dec != nil {
		data, err = dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode as %s: %w", enc, err)
		}
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

// ReadFile loads the dump at path and returns its normalized text.
// A missing file surfaces as the underlying os error so callers can
// distinguish it from decode failures.
func ReadFile(path, enc string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Decode(data, enc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}
