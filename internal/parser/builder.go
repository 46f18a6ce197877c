package parser

import (
	"log/slog"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// Commit kinds reported by Builder.Commit.
const (
	CommitNone  = ""
	CommitGroup = "group"
	CommitSum   = "sum"
	CommitCall  = "call"
	CommitSMS   = "sms"
)

// groupRequirements lists the slots a summary-table row needs per service.
var groupRequirements = map[models.ServiceKind][]Slot{
	models.ServiceVoice:      {SlotGroup, SlotAmount, SlotPrice, SlotDuration},
	models.ServiceGroups:     {SlotGroup, SlotAmount, SlotPrice, SlotDuration},
	models.ServiceSMS:        {SlotGroup, SlotAmount, SlotPrice},
	models.ServiceData:       {SlotGroup, SlotAmount, SlotPrice},
	models.ServiceMMS:        {SlotGroup, SlotAmount, SlotPrice},
	models.ServiceRoamingSMS: {SlotGroup, SlotAmount, SlotPrice},
}

// Builder turns complete slot combinations into records.
type Builder struct {
	vocab  *Vocabulary
	logger *slog.Logger
	year   int
}

// NewBuilder creates a builder stamping dates with year. A nil logger
// discards output.
func NewBuilder(vocab *Vocabulary, logger *slog.Logger, year int) *Builder {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Builder{vocab: vocab, logger: logger, year: year}
}

// Commit runs the group check and then the record check. It returns the
// kind of record committed, CommitNone if the state is not complete yet.
func (b *Builder) Commit(ctx *Context) string {
	if kind := b.commitGroup(ctx); kind != CommitNone {
		return kind
	}
	return b.commitRecord(ctx)
}

func (b *Builder) commitGroup(ctx *Context) string {
	if ctx.Service == nil || !ctx.GroupBlock {
		return CommitNone
	}
	required, ok := groupRequirements[ctx.Service.Kind]
	if !ok || !ctx.State.HasAll(required...) {
		return CommitNone
	}

	st := ctx.State
	defer st.Reset()

	g := models.Group{
		Name:    st.Value(SlotGroup),
		ForFree: st.Value(SlotForFree),
	}
	amount, err := parseCount(st.Value(SlotAmount))
	if err != nil {
		b.logger.Warn("bad group amount", "group", g.Name, "amount", st.Value(SlotAmount), "error", err)
	}
	g.Amount = amount
	if raw, ok := st.Get(SlotDuration); ok {
		d, err := models.ParseDuration(raw)
		if err != nil {
			b.logger.Warn("bad group duration", "group", g.Name, "error", err)
		} else {
			g.Duration = &d
		}
	}
	if g.Price, err = parsePrice(st.Value(SlotPrice)); err != nil {
		b.logger.Warn("bad group price", "group", g.Name, "price", st.Value(SlotPrice), "error", err)
	}

	if b.vocab.IsTotal(g.Name) {
		if !ctx.Service.SetSum(g) {
			b.logger.Warn("duplicate subtotal ignored",
				"account", accountID(ctx), "service", ctx.Service.Kind, "group", g.Name)
			return CommitNone
		}
		return CommitSum
	}
	ctx.Service.AddGroup(g)
	return CommitGroup
}

func (b *Builder) commitRecord(ctx *Context) string {
	st := ctx.State
	if !st.Has(SlotPrice) {
		return CommitNone
	}

	switch st.Value(SlotKind) {
	case string(models.ServiceVoice):
		if !st.HasAll(SlotReceiver, SlotDuration, SlotComment) {
			return CommitNone
		}
		defer st.Reset()
		if ctx.Account == nil {
			b.logger.Warn("call without account dropped", "receiver", st.Value(SlotReceiver))
			return CommitNone
		}
		call, err := b.buildCall(st)
		if err != nil {
			b.logger.Warn("call dropped", "account", ctx.Account.ID, "error", err)
			return CommitNone
		}
		ctx.Account.AddCall(call)
		return CommitCall

	case string(models.ServiceSMS):
		if !st.Has(SlotReceiver) {
			return CommitNone
		}
		defer st.Reset()
		if ctx.Account == nil {
			b.logger.Warn("sms without account dropped", "receiver", st.Value(SlotReceiver))
			return CommitNone
		}
		sms, err := b.buildSMS(st)
		if err != nil {
			b.logger.Warn("sms dropped", "account", ctx.Account.ID, "error", err)
			return CommitNone
		}
		ctx.Account.AddSMS(sms)
		return CommitSMS

	case "connect":
		// TODO: data sessions are itemized per connection; map them to a
		// Connection record once a bill with itemized data is available.
	}
	return CommitNone
}

func (b *Builder) buildCall(st *State) (models.Call, error) {
	at, err := buildTimestamp(b.year, st.Value(SlotDate), st.Value(SlotTime))
	if err != nil {
		return models.Call{}, err
	}
	d, err := models.ParseDuration(st.Value(SlotDuration))
	if err != nil {
		return models.Call{}, err
	}
	price, err := parsePrice(st.Value(SlotPrice))
	if err != nil {
		return models.Call{}, err
	}
	return models.Call{
		Receiver: st.Value(SlotReceiver),
		Time:     at,
		Duration: d,
		Price:    price,
		ForFree:  st.Value(SlotForFree),
		Comment:  st.Value(SlotComment),
	}, nil
}

func (b *Builder) buildSMS(st *State) (models.SMS, error) {
	at, err := buildTimestamp(b.year, st.Value(SlotDate), st.Value(SlotTime))
	if err != nil {
		return models.SMS{}, err
	}
	price, err := parsePrice(st.Value(SlotPrice))
	if err != nil {
		return models.SMS{}, err
	}
	sms := models.SMS{
		Receiver: st.Value(SlotReceiver),
		Time:     at,
		Price:    price,
		Comment:  st.Value(SlotComment),
	}
	if raw, ok := st.Get(SlotAmount); ok {
		n, err := parseCount(raw)
		if err != nil {
			return models.SMS{}, err
		}
		sms.Amount = &n
	}
	return sms, nil
}

func accountID(ctx *Context) string {
	if ctx.Account == nil {
		return ""
	}
	return ctx.Account.ID
}
