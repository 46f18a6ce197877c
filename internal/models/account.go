package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// ServiceKind identifies a billing section of one account.
type ServiceKind string

const (
	ServiceVoice      ServiceKind = "voice"
	ServiceSMS        ServiceKind = "sms"
	ServiceData       ServiceKind = "data"
	ServiceGroups     ServiceKind = "groups"
	ServiceMMS        ServiceKind = "mms"
	ServiceRoamingSMS ServiceKind = "roaming-sms"
)

// Call is one itemized voice call.
type Call struct {
	Receiver string          `yaml:"receiver"`
	Time     time.Time       `yaml:"time"`
	Duration Duration        `yaml:"duration"`
	Price    decimal.Decimal `yaml:"price"`
	ForFree  string          `yaml:"for_free,omitempty"`
	Comment  string          `yaml:"comment"`
}

// Free reports whether the call was not charged.
func (c Call) Free() bool {
	return c.Price.IsZero()
}

// SMS is one itemized text message line. Amount is nil when the bill does
// not print a message count.
type SMS struct {
	Receiver string          `yaml:"receiver"`
	Time     time.Time       `yaml:"time"`
	Amount   *int            `yaml:"amount,omitempty"`
	Price    decimal.Decimal `yaml:"price"`
	Comment  string          `yaml:"comment,omitempty"`
}

// Group is a named usage bucket inside a service summary table.
type Group struct {
	Name     string          `yaml:"name"`
	Amount   int             `yaml:"amount"`
	Duration *Duration       `yaml:"duration,omitempty"`
	Price    decimal.Decimal `yaml:"price"`
	ForFree  string          `yaml:"for_free,omitempty"`
}

// Paid reports whether the group was charged or carries a free-units override.
func (g Group) Paid() bool {
	return g.Price.IsPositive() || g.ForFree != ""
}

// Minutes returns the group duration rounded to whole minutes, 0 when absent.
func (g Group) Minutes() int {
	if g.Duration == nil {
		return 0
	}
	return g.Duration.RoundedMinutes()
}

// Service holds the groups of one billing section. Sum is the subtotal
// line of the section, if the bill printed one.
type Service struct {
	Kind   ServiceKind `yaml:"kind"`
	Groups []Group     `yaml:"groups,omitempty"`
	Sum    *Group      `yaml:"sum,omitempty"`
}

// IsKind reports whether s is the service of the given kind.
func (s *Service) IsKind(kind ServiceKind) bool {
	return s != nil && s.Kind == kind
}

// AddGroup appends a regular group.
func (s *Service) AddGroup(g Group) {
	s.Groups = append(s.Groups, g)
}

// SetSum installs g as the subtotal. It returns false, leaving the existing
// subtotal in place, if one was already installed.
func (s *Service) SetSum(g Group) bool {
	if s.Sum != nil {
		return false
	}
	s.Sum = &g
	return true
}

// Number is a phone-number account and everything billed to it.
type Number struct {
	ID       string     `yaml:"number"`
	Calls    []Call     `yaml:"calls,omitempty"`
	SMS      []SMS      `yaml:"sms,omitempty"`
	Services []*Service `yaml:"services,omitempty"`
}

// NewNumber creates an account from the identifier as printed on the bill.
func NewNumber(raw string) *Number {
	return &Number{ID: NormalizeNumber(raw)}
}

// NormalizeNumber strips all whitespace from an account identifier.
func NormalizeNumber(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// Matches reports whether identifier, printed or normalized, names this account.
func (n *Number) Matches(identifier string) bool {
	return n.ID == NormalizeNumber(identifier)
}

// Service returns the service of the given kind, creating it on first use.
func (n *Number) Service(kind ServiceKind) *Service {
	if s := n.FindService(kind); s != nil {
		return s
	}
	s := &Service{Kind: kind}
	n.Services = append(n.Services, s)
	return s
}

// FindService returns the service of the given kind or nil.
func (n *Number) FindService(kind ServiceKind) *Service {
	for _, s := range n.Services {
		if s.IsKind(kind) {
			return s
		}
	}
	return nil
}

// AddCall appends a committed call.
func (n *Number) AddCall(c Call) {
	n.Calls = append(n.Calls, c)
}

// AddSMS appends a committed message.
func (n *Number) AddSMS(m SMS) {
	n.SMS = append(n.SMS, m)
}

// Book is the set of accounts found in one document, in order of first sighting.
type Book struct {
	Source  string    `yaml:"source"`
	Numbers []*Number `yaml:"numbers"`
}

// NewBook creates an empty account set for the given document.
func NewBook(source string) *Book {
	return &Book{Source: source}
}

// Resolve returns the account named by identifier, creating it if needed.
// Repeated sightings resolve to the same *Number.
func (b *Book) Resolve(identifier string) *Number {
	if n := b.Find(identifier); n != nil {
		return n
	}
	n := NewNumber(identifier)
	b.Numbers = append(b.Numbers, n)
	return n
}

// Find returns the account named by identifier or nil.
func (b *Book) Find(identifier string) *Number {
	for _, n := range b.Numbers {
		if n.Matches(identifier) {
			return n
		}
	}
	return nil
}

// Counts returns the number of committed calls, messages and groups.
func (b *Book) Counts() (calls, sms, groups int) {
	for _, n := range b.Numbers {
		calls += len(n.Calls)
		sms += len(n.SMS)
		for _, s := range n.Services {
			groups += len(s.Groups)
			if s.Sum != nil {
				groups++
			}
		}
	}
	return calls, sms, groups
}
