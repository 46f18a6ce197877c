package extractor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns raw text runs into parser tokens: byte strings are
// decoded from the document charset, the result is NFC-composed, and
// whitespace is collapsed and trimmed.
type Normalizer struct {
	charset encoding.Encoding // nil means UTF-8
}

// NewNormalizer returns a normalizer for the named charset. Empty means cp1250.
func NewNormalizer(name string) (*Normalizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cp1250", "windows-1250":
		return &Normalizer{charset: charmap.Windows1250}, nil
	case "utf-8", "utf8":
		return &Normalizer{}, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// Bytes decodes a byte string in the document charset.
func (n *Normalizer) Bytes(raw []byte) string {
	if n.charset == nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	out, err := n.charset.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

// Token normalizes one extracted run. It returns "" for blank input.
func (n *Normalizer) Token(s string) string {
	if !utf8.ValidString(s) {
		s = n.Bytes([]byte(s))
	}
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
