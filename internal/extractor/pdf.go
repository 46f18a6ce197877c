package extractor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// extractWithLibrary reads every page with the ledongthuc/pdf row layout.
// Each text run of a row becomes one token, in row order.
func extractWithLibrary(path string, n *Normalizer) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
		}
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	doc = &models.Document{Path: path}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		asm := newTokenAssembler(n)
		rows, err := page.GetTextByRow()
		if err == nil {
			for _, row := range rows {
				for _, word := range row.Content {
					asm.show(word.S)
				}
				asm.flush()
			}
		}
		doc.Pages = append(doc.Pages, models.Page{Number: i, Tokens: asm.take()})
	}
	return doc, nil
}

// tokenAssembler collects the tokens of one page. Consecutive
// single-character runs are glued into one token until a longer run or a
// flush (end of row or text object) ends them.
type tokenAssembler struct {
	norm   *Normalizer
	glue   strings.Builder
	tokens []string
}

func newTokenAssembler(n *Normalizer) *tokenAssembler {
	return &tokenAssembler{norm: n}
}

func (a *tokenAssembler) show(run string) {
	if utf8.RuneCountInString(run) == 1 {
		a.glue.WriteString(run)
		return
	}
	a.flush()
	a.emit(run)
}

func (a *tokenAssembler) flush() {
	if a.glue.Len() == 0 {
		return
	}
	a.emit(a.glue.String())
	a.glue.Reset()
}

func (a *tokenAssembler) emit(s string) {
	if tok := a.norm.Token(s); tok != "" {
		a.tokens = append(a.tokens, tok)
	}
}

// take flushes and returns the collected tokens, leaving the assembler empty.
func (a *tokenAssembler) take() []string {
	a.flush()
	tokens := a.tokens
	a.tokens = nil
	return tokens
}
