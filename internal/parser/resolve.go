package parser

// Op is what the classifier does with a token.
type Op int

const (
	OpUnrecognized Op = iota
	OpAccount
	OpSection
	OpKind
	OpSet
	OpReset
	OpIgnore
	OpInvalid
)

var opNames = [...]string{
	OpUnrecognized: "unrecognized",
	OpAccount:      "account",
	OpSection:      "service",
	OpKind:         "kind",
	OpSet:          "set",
	OpReset:        "reset",
	OpIgnore:       "ignored",
	OpInvalid:      "invalid",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Action is the resolved meaning of a token. Slot is set for OpSet and OpKind.
type Action struct {
	Op   Op
	Slot Slot
}

func set(slot Slot) Action { return Action{Op: OpSet, Slot: slot} }

var unrecognized = Action{Op: OpUnrecognized}

// View is the part of the parser context that resolution depends on.
type View struct {
	Last       Slot
	GroupBlock bool
	HasAmount  bool
	HasKind    bool
}

// Resolve maps a token shape and the current context to an action. It has
// no side effects.
func Resolve(shape Shape, v View) Action {
	switch shape {
	case ShapeAccount:
		return Action{Op: OpAccount}
	case ShapeSection:
		return Action{Op: OpSection}
	case ShapeKind, ShapeGroupCalls:
		return Action{Op: OpKind, Slot: SlotKind}
	case ShapeVAT:
		return set(SlotVAT)
	case ShapeShortDate:
		if v.Last == SlotKind {
			return set(SlotDate)
		}
		return Action{Op: OpInvalid}
	case ShapeFullDate, ShapePageMarker:
		return Action{Op: OpReset}
	case ShapeNoise:
		return Action{Op: OpIgnore}
	case ShapeReceiver:
		return set(SlotReceiver)
	case ShapeTime:
		return resolveTime(v)
	case ShapePrice:
		return set(SlotPrice)
	case ShapeInteger:
		if v.Last == SlotPrice {
			return set(SlotForFree)
		}
		return set(SlotAmount)
	default:
		return resolveText(v)
	}
}

// resolveTime disambiguates HH:MM:SS by the slot written just before it.
func resolveTime(v View) Action {
	switch v.Last {
	case SlotDate:
		return set(SlotTime)
	case SlotReceiver:
		return set(SlotDuration)
	case SlotComment:
		return set(SlotForFree)
	case SlotAmount:
		// group table: name, amount, duration
		return set(SlotDuration)
	case SlotPrice:
		// group table: free units after the price
		return set(SlotForFree)
	}
	return unrecognized
}

func resolveText(v View) Action {
	switch {
	case v.Last == SlotDuration || v.Last == SlotReceiver:
		return set(SlotComment)
	case v.Last == SlotPrice && v.HasKind && !v.GroupBlock:
		// itemized line printed as ... duration price comment
		return set(SlotComment)
	case v.GroupBlock && !v.HasAmount:
		return set(SlotGroup)
	}
	return unrecognized
}
