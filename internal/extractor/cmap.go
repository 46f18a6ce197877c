package extractor

import (
	"bytes"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf16"
)

// cmap maps font character codes to Unicode, as read from a ToUnicode stream.
type cmap struct {
	// codes maps upper-case hex character codes to Unicode strings.
	codes map[string]string
	// codeLen is the width of one character code in bytes.
	codeLen int
}

func newCMap() *cmap {
	return &cmap{codes: make(map[string]string)}
}

var (
	bfCharBlockRe  = regexp.MustCompile(`(?s)beginbfchar\s*(.*?)\s*endbfchar`)
	bfRangeBlockRe = regexp.MustCompile(`(?s)beginbfrange\s*(.*?)\s*endbfrange`)
	hexTokenRe     = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
)

// parseCMap reads the bfchar and bfrange sections of a ToUnicode stream.
func parseCMap(content string) *cmap {
	cm := newCMap()

	// <src> <dst>
	for _, block := range bfCharBlockRe.FindAllStringSubmatch(content, -1) {
		tokens := hexTokenRe.FindAllStringSubmatch(block[1], -1)
		for i := 0; i+1 < len(tokens); i += 2 {
			cm.set(tokens[i][1], hexToUnicode(tokens[i+1][1]))
		}
	}

	// <start> <end> <dst> or <start> <end> [<dst1> <dst2> ...]
	for _, block := range bfRangeBlockRe.FindAllStringSubmatch(content, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if i := strings.Index(line, "["); i >= 0 {
				cm.setRangeArray(line[:i], line[i:])
				continue
			}

			tokens := hexTokenRe.FindAllStringSubmatch(line, -1)
			if len(tokens) < 3 {
				continue
			}
			startHex, endHex, dstHex := tokens[0][1], tokens[1][1], tokens[2][1]
			start, end, dst := hexToInt(startHex), hexToInt(endHex), hexToInt(dstHex)
			if start < 0 || end < 0 || dst < 0 || end < start {
				continue
			}
			for code := start; code <= end; code++ {
				cm.set(intToHex(code, len(startHex)), hexToUnicode(intToHex(dst+code-start, len(dstHex))))
			}
		}
	}

	return cm
}

func (cm *cmap) setRangeArray(bounds, array string) {
	tokens := hexTokenRe.FindAllStringSubmatch(bounds, -1)
	if len(tokens) < 2 {
		return
	}
	startHex := tokens[0][1]
	start := hexToInt(startHex)
	if start < 0 {
		return
	}
	for i, ut := range hexTokenRe.FindAllStringSubmatch(array, -1) {
		cm.set(intToHex(start+i, len(startHex)), hexToUnicode(ut[1]))
	}
}

func (cm *cmap) set(srcHex, uni string) {
	if uni == "" {
		return
	}
	if cm.codeLen == 0 {
		cm.codeLen = (len(srcHex) + 1) / 2
	}
	cm.codes[strings.ToUpper(srcHex)] = uni
}

// Decode maps raw character codes to Unicode. ok is false unless every
// code of raw is covered by the map.
func (cm *cmap) Decode(raw []byte) (string, bool) {
	if cm == nil || len(cm.codes) == 0 || len(raw) == 0 || len(raw)%cm.codeLen != 0 {
		return "", false
	}
	var out strings.Builder
	for i := 0; i < len(raw); i += cm.codeLen {
		uni, ok := cm.codes[strings.ToUpper(hex.EncodeToString(raw[i:i+cm.codeLen]))]
		if !ok {
			return "", false
		}
		out.WriteString(uni)
	}
	return out.String(), true
}

func hexToInt(h string) int {
	val := 0
	for _, c := range strings.ToUpper(h) {
		val <<= 4
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'A' && c <= 'F':
			val += int(c-'A') + 10
		default:
			return -1
		}
	}
	return val
}

// intToHex formats val as upper-case hex zero-padded to hexLen digits.
func intToHex(val, hexLen int) string {
	h := strings.ToUpper(hex.EncodeToString([]byte{byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val)}))
	if len(h) > hexLen {
		return h[len(h)-hexLen:]
	}
	return strings.Repeat("0", hexLen-len(h)) + h
}

// hexToUnicode decodes a UTF-16BE hex value, surrogate pairs included.
func hexToUnicode(h string) string {
	if len(h)%2 != 0 {
		h = "0" + h
	}
	data, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	if len(data) == 1 {
		return string(rune(data[0]))
	}
	return decodeUTF16BE(data)
}

func decodeUTF16BE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

func isCMapStream(content []byte) bool {
	return bytes.Contains(content, []byte("beginbfchar")) || bytes.Contains(content, []byte("beginbfrange"))
}

// findCMaps parses every ToUnicode stream among the decoded streams and
// merges them. It returns nil when there are none.
func findCMaps(streams [][]byte) *cmap {
	var merged *cmap
	for _, s := range streams {
		if !isCMapStream(s) {
			continue
		}
		cm := parseCMap(string(s))
		if len(cm.codes) == 0 {
			continue
		}
		if merged == nil {
			merged = newCMap()
			merged.codeLen = cm.codeLen
		}
		if cm.codeLen != merged.codeLen {
			continue
		}
		for k, v := range cm.codes {
			merged.codes[k] = v
		}
	}
	return merged
}
