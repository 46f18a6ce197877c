package extractor

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// EventKind is the type of a content-stream text event.
type EventKind int

const (
	BeginTextObject EventKind = iota
	ShowText
	EndTextObject
)

func (k EventKind) String() string {
	switch k {
	case BeginTextObject:
		return "begin_text_object"
	case ShowText:
		return "show_text"
	case EndTextObject:
		return "end_text_object"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one text event. Text is set for ShowText only.
type Event struct {
	Kind EventKind
	Text string
}

// ExtractRaw is the fallback extractor. It works on the raw PDF bytes
// without the PDF library: every content stream with text becomes one
// page, and its text objects are replayed as events.
func ExtractRaw(path string, n *Normalizer) (*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return extractRawBytes(path, data, n), nil
}

func extractRawBytes(path string, data []byte, n *Normalizer) *models.Document {
	var contents [][]byte
	for _, s := range extractStreams(data) {
		contents = append(contents, tryDecompress(s))
	}
	dec := &stringDecoder{cmap: findCMaps(contents), norm: n}

	doc := &models.Document{Path: path}
	for _, c := range contents {
		if isCMapStream(c) {
			continue
		}
		asm := newTokenAssembler(n)
		WalkContent(c, dec.decode, func(ev Event) {
			if ev.Kind == ShowText {
				asm.show(ev.Text)
				return
			}
			asm.flush()
		})
		if tokens := asm.take(); len(tokens) > 0 {
			doc.Pages = append(doc.Pages, models.Page{Number: len(doc.Pages) + 1, Tokens: tokens})
		}
	}
	return doc
}

// extractStreams finds all stream...endstream blocks in the PDF.
func extractStreams(data []byte) [][]byte {
	var streams [][]byte
	streamMarker := []byte("stream")
	endMarker := []byte("endstream")

	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], streamMarker)
		if idx < 0 {
			break
		}
		start := offset + idx + len(streamMarker)

		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}

		endIdx := bytes.Index(data[start:], endMarker)
		if endIdx < 0 {
			break
		}

		if streamData := data[start : start+endIdx]; len(streamData) > 0 {
			streams = append(streams, streamData)
		}
		offset = start + endIdx + len(endMarker)
	}
	return streams
}

// tryDecompress attempts zlib decompression; returns original data if it fails.
func tryDecompress(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

// stringDecoder turns the bytes of a shown string into text: through the
// ToUnicode map when it covers the string, as UTF-16BE when the string has
// a byte-order mark, otherwise in the document charset.
type stringDecoder struct {
	cmap *cmap
	norm *Normalizer
}

func (d *stringDecoder) decode(raw []byte) string {
	if s, ok := d.cmap.Decode(raw); ok {
		return s
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return decodeUTF16BE(raw[2:])
	}
	return d.norm.Bytes(raw)
}

// WalkContent lexes a decompressed content stream and calls emit for every
// BT, text-showing operator (Tj, TJ, ', ") and ET, in stream order.
func WalkContent(content []byte, decode func([]byte) string, emit func(Event)) {
	lx := &lexer{data: content}
	var (
		operands []lexeme
		array    []lexeme
		inArray  bool
		inText   bool
	)

	for {
		lm, ok := lx.next()
		if !ok {
			break
		}
		switch lm.kind {
		case lexArrayStart:
			inArray, array = true, nil
		case lexArrayEnd:
			if inArray {
				operands = append(operands, lexeme{kind: lexArray, items: array})
			}
			inArray = false
		case lexOperator:
			switch string(lm.data) {
			case "BT":
				inText = true
				emit(Event{Kind: BeginTextObject})
			case "ET":
				if inText {
					emit(Event{Kind: EndTextObject})
				}
				inText = false
			case "Tj", "'", `"`:
				if s, ok := lastString(operands); ok {
					emit(Event{Kind: ShowText, Text: decode(s)})
				}
			case "TJ":
				if len(operands) > 0 && operands[len(operands)-1].kind == lexArray {
					var buf []byte
					for _, item := range operands[len(operands)-1].items {
						if item.kind == lexString {
							buf = append(buf, item.data...)
						}
					}
					if len(buf) > 0 {
						emit(Event{Kind: ShowText, Text: decode(buf)})
					}
				}
			case "ID":
				lx.skipInlineImage()
			}
			operands = operands[:0]
			inArray = false
		default:
			if inArray {
				array = append(array, lm)
			} else {
				operands = append(operands, lm)
			}
		}
	}
	if inText {
		emit(Event{Kind: EndTextObject})
	}
}

func lastString(operands []lexeme) ([]byte, bool) {
	if len(operands) == 0 || operands[len(operands)-1].kind != lexString {
		return nil, false
	}
	return operands[len(operands)-1].data, true
}

type lexKind int

const (
	lexOperator lexKind = iota
	lexString           // literal or hex string, already decoded to bytes
	lexOther            // numbers, names, dictionary delimiters
	lexArrayStart
	lexArrayEnd
	lexArray
)

type lexeme struct {
	kind  lexKind
	data  []byte
	items []lexeme
}

// lexer splits a content stream into PDF lexemes.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) next() (lexeme, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhite(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			return lexeme{kind: lexString, data: l.literal()}, true
		case c == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				l.pos += 2
				return lexeme{kind: lexOther, data: []byte("<<")}, true
			}
			return lexeme{kind: lexString, data: l.hexString()}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.data) && l.data[l.pos] == '>' {
				l.pos++
			}
			return lexeme{kind: lexOther, data: []byte(">>")}, true
		case c == '[':
			l.pos++
			return lexeme{kind: lexArrayStart}, true
		case c == ']':
			l.pos++
			return lexeme{kind: lexArrayEnd}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
			return lexeme{kind: lexOther, data: []byte{c}}, true
		case c == '/':
			start := l.pos
			l.pos++
			l.regular()
			return lexeme{kind: lexOther, data: l.data[start:l.pos]}, true
		default:
			start := l.pos
			l.regular()
			word := l.data[start:l.pos]
			if isNumber(word) {
				return lexeme{kind: lexOther, data: word}, true
			}
			return lexeme{kind: lexOperator, data: word}, true
		}
	}
	return lexeme{}, false
}

func (l *lexer) regular() {
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
}

func isNumber(word []byte) bool {
	if len(word) == 0 {
		return false
	}
	for _, c := range word {
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}

// literal reads a (...) string with balanced parentheses and escapes.
func (l *lexer) literal() []byte {
	l.pos++ // (
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			out = l.escape(out)
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func (l *lexer) escape(out []byte) []byte {
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'b':
		return append(out, '\b')
	case 'f':
		return append(out, '\f')
	case '\r':
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
		return out
	case '\n':
		return out
	}
	if c >= '0' && c <= '7' {
		val := int(c - '0')
		for j := 0; j < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; j++ {
			val = val*8 + int(l.data[l.pos]-'0')
			l.pos++
		}
		return append(out, byte(val))
	}
	return append(out, c)
}

// hexString reads a <...> string. An odd digit count is padded with 0.
func (l *lexer) hexString() []byte {
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; !isWhite(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++ // >
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, err := hex.Decode(out, digits)
	if err != nil {
		return out[:n]
	}
	return out
}

// skipInlineImage moves past the binary data of a BI ... ID ... EI image.
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) && isWhite(l.data[l.pos]) {
		l.pos++
	}
	for l.pos+2 < len(l.data) {
		if isWhite(l.data[l.pos]) && l.data[l.pos+1] == 'E' && l.data[l.pos+2] == 'I' &&
			(l.pos+3 == len(l.data) || isWhite(l.data[l.pos+3])) {
			l.pos += 3
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}
