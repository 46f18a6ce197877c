package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// ErrUnknownType is returned by New for an unsupported report shape.
var ErrUnknownType = errors.New("unknown report type")

// Supported report types.
const (
	TypeInline  = "inline"
	TypeGrouped = "grouped"
)

// Header is written above the rows of every report shape.
var Header = []string{"Number", "SMS", "Price", "Calls", "Price"}

// Row is one output line of primitive values.
type Row []string

// Table is a header plus rows collected over one or more documents.
type Table struct {
	Type    string
	Sources []string
	Header  []string
	Rows    []Row
}

// Builder turns the accounts of one document into report rows.
type Builder interface {
	Type() string
	Rows(book *models.Book) []Row
}

// New returns the builder for the named report type.
func New(reportType string) (Builder, error) {
	switch strings.ToLower(strings.TrimSpace(reportType)) {
	case TypeInline:
		return InlineBuilder{}, nil
	case TypeGrouped:
		return GroupedBuilder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnknownType, reportType, TypeInline, TypeGrouped)
	}
}

// Types lists the supported report types.
func Types() []string {
	return []string{TypeInline, TypeGrouped}
}

// NewTable starts an empty table for builder b.
func NewTable(b Builder) *Table {
	return &Table{
		Type:   b.Type(),
		Header: append([]string(nil), Header...),
	}
}

// Append adds the rows of one document to the table.
func (t *Table) Append(b Builder, book *models.Book) {
	if book == nil {
		return
	}
	t.Sources = append(t.Sources, book.Source)
	t.Rows = append(t.Rows, b.Rows(book)...)
}

// Build collects the rows of all books into one table.
func Build(b Builder, books ...*models.Book) *Table {
	t := NewTable(b)
	for _, book := range books {
		t.Append(b, book)
	}
	return t
}
