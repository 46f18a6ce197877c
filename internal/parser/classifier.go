package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// Context is the mutable parsing context of one document. It is passed to
// the classifier and the builder on every token.
type Context struct {
	State   *State
	Book    *models.Book
	Account *models.Number
	Service *models.Service
	// GroupBlock is true while a service summary table is being read.
	GroupBlock bool
}

// NewContext returns an empty context writing into book.
func NewContext(book *models.Book) *Context {
	return &Context{State: NewState(), Book: book}
}

// View returns what Resolve needs from the context.
func (c *Context) View() View {
	return View{
		Last:       c.State.Last(),
		GroupBlock: c.GroupBlock,
		HasAmount:  c.State.Has(SlotAmount),
		HasKind:    c.State.Has(SlotKind),
	}
}

// Outcome describes how one token was classified.
type Outcome struct {
	Token  string
	Shape  Shape
	Action Action
	// Last is the last-set slot before the token was applied.
	Last Slot
}

// Classifier assigns meaning to tokens and writes them into the state store.
type Classifier struct {
	vocab  *Vocabulary
	logger *slog.Logger
	strict bool
}

// NewClassifier creates a classifier. A nil logger discards output.
func NewClassifier(vocab *Vocabulary, logger *slog.Logger, strict bool) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Classifier{vocab: vocab, logger: logger, strict: strict}
}

// Classify applies token to ctx. The only error is ErrInvalidState, and
// only in strict mode.
func (c *Classifier) Classify(token string, ctx *Context) (Outcome, error) {
	shape := c.vocab.ShapeOf(token)
	out := Outcome{Token: token, Shape: shape, Last: ctx.State.Last()}
	out.Action = Resolve(shape, ctx.View())

	switch out.Action.Op {
	case OpAccount:
		ctx.Account = ctx.Book.Resolve(token)
		ctx.Service = nil
		ctx.GroupBlock = false
		ctx.State.Reset()

	case OpSection:
		kind, _ := c.vocab.Section(token)
		if ctx.Account == nil {
			c.logger.Warn("section header before any account", "token", token, "service", kind)
			out.Action = Action{Op: OpIgnore}
			break
		}
		ctx.Service = ctx.Account.Service(kind)
		ctx.GroupBlock = true

	case OpKind:
		value := token
		if shape == ShapeGroupCalls {
			value = string(models.ServiceVoice)
		}
		ctx.State.Reset()
		ctx.State.Set(SlotKind, value)
		ctx.GroupBlock = false

	case OpSet:
		ctx.State.Set(out.Action.Slot, token)

	case OpReset:
		ctx.State.Reset()

	case OpIgnore:

	case OpInvalid:
		ctx.State.ClearLast()
		if c.strict {
			return out, fmt.Errorf("%w: date %q after %q", ErrInvalidState, token, out.Last)
		}
		c.logger.Warn("date outside of a record, dropped", "token", token, "last", out.Last.String())

	case OpUnrecognized:
		c.logger.Debug("unrecognized token", "token", token, "shape", shape.String(), "last", out.Last.String())
	}

	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
