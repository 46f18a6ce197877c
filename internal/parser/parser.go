package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// DefaultYear is the statement year stamped on itemized records when none is configured.
const DefaultYear = 2012

// ErrInvalidState is returned in strict mode when a token cannot occur in
// the current state, e.g. a bare "D.M." date that does not follow a kind.
var ErrInvalidState = errors.New("invalid parser state")

// Recorder receives per-token and per-commit events. internal/metrics
// provides the Prometheus implementation.
type Recorder interface {
	Token(outcome string)
	Commit(kind string)
}

type nopRecorder struct{}

func (nopRecorder) Token(string)  {}
func (nopRecorder) Commit(string) {}

// Options configures a Parser.
type Options struct {
	// Year is combined with "D.M." dates. Zero means DefaultYear.
	Year int
	// Strict aborts a document on invalid states instead of dropping the token.
	Strict bool
	// Trace collects a TokenTrace per token in the Result.
	Trace      bool
	Logger     *slog.Logger
	Vocabulary *Vocabulary
	Recorder   Recorder
}

// Parser drives classification over a document, page by page.
type Parser struct {
	classifier *Classifier
	builder    *Builder
	logger     *slog.Logger
	recorder   Recorder
	trace      bool
}

// Result is the outcome of parsing one document.
type Result struct {
	Book         *models.Book
	Trace        []models.TokenTrace
	Tokens       int
	Unrecognized int
}

// New creates a Parser.
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	year := opts.Year
	if year == 0 {
		year = DefaultYear
	}
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Parser{
		classifier: NewClassifier(vocab, logger, opts.Strict),
		builder:    NewBuilder(vocab, logger, year),
		logger:     logger,
		recorder:   rec,
		trace:      opts.Trace,
	}
}

// Parse feeds every token of doc, in page order, through the classifier
// and the builder. The state store is reset at each page boundary; the
// accounts are kept.
func (p *Parser) Parse(doc *models.Document) (*Result, error) {
	res := &Result{Book: models.NewBook(doc.Path)}
	ctx := NewContext(res.Book)

	for _, page := range doc.Pages {
		ctx.State.Reset()
		for i, token := range page.Tokens {
			if token == "" {
				continue
			}
			res.Tokens++

			out, err := p.classifier.Classify(token, ctx)
			if err != nil {
				return res, fmt.Errorf("page %d token %d: %w", page.Number, i, err)
			}
			commit := p.builder.Commit(ctx)

			if out.Action.Op == OpUnrecognized {
				res.Unrecognized++
			}
			p.recorder.Token(out.Action.Op.String())
			if commit != CommitNone {
				p.recorder.Commit(commit)
			}

			p.logger.Debug("token",
				"page", page.Number,
				"index", i,
				"text", token,
				"shape", out.Shape.String(),
				"outcome", out.Action.Op.String(),
				"slot", out.Action.Slot.String(),
				"last", out.Last.String(),
				"commit", commit,
			)
			if p.trace {
				res.Trace = append(res.Trace, models.TokenTrace{
					Page:    page.Number,
					Index:   i,
					Text:    token,
					Shape:   out.Shape.String(),
					Outcome: out.Action.Op.String(),
					Slot:    out.Action.Slot.String(),
					Last:    out.Last.String(),
					Commit:  commit,
				})
			}
		}
	}

	calls, sms, groups := res.Book.Counts()
	p.logger.Info("document parsed",
		"source", doc.Path,
		"accounts", len(res.Book.Numbers),
		"calls", calls,
		"sms", sms,
		"groups", groups,
		"unrecognized", res.Unrecognized,
	)
	return res, nil
}

// ParseTokens parses a single page of tokens. Useful for callers that
// already hold extracted text.
func (p *Parser) ParseTokens(source string, tokens []string) (*Result, error) {
	return p.Parse(&models.Document{
		Path:  source,
		Pages: []models.Page{{Number: 1, Tokens: tokens}},
	})
}
