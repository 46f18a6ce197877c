package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// Shape is the lexical class of a token, before context is considered.
type Shape int

const (
	ShapeText Shape = iota
	ShapeAccount
	ShapeSection
	ShapeKind
	ShapeGroupCalls
	ShapeVAT
	ShapeShortDate
	ShapeFullDate
	ShapePageMarker
	ShapeNoise
	ShapeReceiver
	ShapeTime
	ShapePrice
	ShapeInteger
)

var shapeNames = map[Shape]string{
	ShapeText:       "text",
	ShapeAccount:    "account",
	ShapeSection:    "section",
	ShapeKind:       "kind",
	ShapeGroupCalls: "group-calls",
	ShapeVAT:        "vat",
	ShapeShortDate:  "short-date",
	ShapeFullDate:   "full-date",
	ShapePageMarker: "page-marker",
	ShapeNoise:      "noise",
	ShapeReceiver:   "receiver",
	ShapeTime:       "time",
	ShapePrice:      "price",
	ShapeInteger:    "integer",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "unknown"
}

// Token patterns of the bill layout.
var (
	// 123 456 789
	accountPattern = regexp.MustCompile(`^\d{3}\s\d{3}\s\d{3}$`)
	kindPattern    = regexp.MustCompile(`^(?:voice|sms|connect)$`)
	// "group calls" and its short forms always mean voice
	groupCallsPattern = regexp.MustCompile(`(?i)^(?:group|calls|group calls|skupinové hovory)$`)
	// 21 %, 21,5%
	vatPattern = regexp.MustCompile(`^\d{1,2}(?:[.,]\d+)?\s?%$`)
	// D.M. (no year)
	shortDatePattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.$`)
	// D.M.YYYY
	fullDatePattern   = regexp.MustCompile(`^\d{1,2}\.\s?\d{1,2}\.\s?\d{4}$`)
	pageMarkerPattern = regexp.MustCompile(`(?i)^(?:strana|page)\s+\d+(?:\s*/\s*\d+)?$`)
	paginationPattern = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	subtotalNoise     = regexp.MustCompile(`(?i)^(?:mezisoučet|převod|subtotal|carried forward|brought forward)$`)
	receiverPattern   = regexp.MustCompile(`^\d{11,12}$`)
	timePattern       = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	pricePattern      = regexp.MustCompile(`^-?\d+,\d+$`)
	integerPattern    = regexp.MustCompile(`^\d{1,10}$`)
	// group names that stand for the subtotal of a service table
	totalPattern = regexp.MustCompile(`(?i)^(?:celkem|součet|total)\b`)
)

// defaultSections maps section titles (case-insensitive) to the service they open.
var defaultSections = map[string]models.ServiceKind{
	"hlasové služby":   models.ServiceVoice,
	"volání":           models.ServiceVoice,
	"voice services":   models.ServiceVoice,
	"zprávy sms":       models.ServiceSMS,
	"sms services":     models.ServiceSMS,
	"datové služby":    models.ServiceData,
	"data services":    models.ServiceData,
	"skupinové služby": models.ServiceGroups,
	"group services":   models.ServiceGroups,
	"zprávy mms":       models.ServiceMMS,
	"mms services":     models.ServiceMMS,
	"sms v roamingu":   models.ServiceRoamingSMS,
	"roaming sms":      models.ServiceRoamingSMS,
}

type shapeRule struct {
	shape Shape
	match func(v *Vocabulary, token string) bool
}

// shapeRules is evaluated top to bottom; the first match wins. The order
// matters: a 9-digit account is also an integer, a page marker also
// contains digits, and so on.
var shapeRules = []shapeRule{
	{ShapeAccount, func(_ *Vocabulary, t string) bool { return accountPattern.MatchString(t) }},
	{ShapeSection, func(v *Vocabulary, t string) bool { _, ok := v.Section(t); return ok }},
	{ShapeKind, func(_ *Vocabulary, t string) bool { return kindPattern.MatchString(t) }},
	{ShapeGroupCalls, func(_ *Vocabulary, t string) bool { return groupCallsPattern.MatchString(t) }},
	{ShapeVAT, func(_ *Vocabulary, t string) bool { return vatPattern.MatchString(t) }},
	{ShapeShortDate, func(_ *Vocabulary, t string) bool { return shortDatePattern.MatchString(t) }},
	{ShapeFullDate, func(_ *Vocabulary, t string) bool { return fullDatePattern.MatchString(t) }},
	{ShapePageMarker, func(_ *Vocabulary, t string) bool { return pageMarkerPattern.MatchString(t) }},
	{ShapeNoise, func(_ *Vocabulary, t string) bool {
		return paginationPattern.MatchString(t) || subtotalNoise.MatchString(t)
	}},
	{ShapeReceiver, func(_ *Vocabulary, t string) bool { return receiverPattern.MatchString(t) }},
	{ShapeTime, func(_ *Vocabulary, t string) bool { return timePattern.MatchString(t) }},
	{ShapePrice, func(_ *Vocabulary, t string) bool { return pricePattern.MatchString(t) }},
	{ShapeInteger, func(_ *Vocabulary, t string) bool { return integerPattern.MatchString(t) }},
}

// Vocabulary is the fixed token vocabulary of one bill layout.
type Vocabulary struct {
	sections map[string]models.ServiceKind
}

// DefaultVocabulary returns the vocabulary with the built-in section titles.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultSections)
}

// NewVocabulary builds a vocabulary with the given section titles.
func NewVocabulary(sections map[string]models.ServiceKind) *Vocabulary {
	v := &Vocabulary{sections: make(map[string]models.ServiceKind, len(sections))}
	for title, kind := range sections {
		v.sections[strings.ToLower(strings.TrimSpace(title))] = kind
	}
	return v
}

// ShapeOf returns the first shape whose pattern matches token.
func (v *Vocabulary) ShapeOf(token string) Shape {
	for _, r := range shapeRules {
		if r.match(v, token) {
			return r.shape
		}
	}
	return ShapeText
}

// Section returns the service opened by a section title.
func (v *Vocabulary) Section(token string) (models.ServiceKind, bool) {
	kind, ok := v.sections[strings.ToLower(token)]
	return kind, ok
}

// IsTotal reports whether a group name marks a service subtotal.
func (v *Vocabulary) IsTotal(name string) bool {
	return totalPattern.MatchString(strings.TrimSpace(name))
}
