package parser

import "strconv"

// Slot names one pending field of the record being assembled.
type Slot int

const (
	SlotNone Slot = iota
	SlotKind
	SlotDate
	SlotTime
	SlotDuration
	SlotReceiver
	SlotComment
	SlotAmount
	SlotForFree
	SlotPrice
	SlotGroup
	SlotVAT

	slotCount
)

var slotNames = [slotCount]string{
	SlotNone:     "",
	SlotKind:     "kind",
	SlotDate:     "date",
	SlotTime:     "time",
	SlotDuration: "duration",
	SlotReceiver: "receiver",
	SlotComment:  "comment",
	SlotAmount:   "amount",
	SlotForFree:  "for_free",
	SlotPrice:    "price",
	SlotGroup:    "group",
	SlotVAT:      "vat",
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return "slot(" + strconv.Itoa(int(s)) + ")"
	}
	return slotNames[s]
}

// State holds at most one value per slot and remembers which slot was
// written last. The last-set slot is the only context the classifier has.
type State struct {
	values [slotCount]string
	set    [slotCount]bool
	last   Slot
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Set stores value in slot and marks slot as last set.
func (st *State) Set(slot Slot, value string) {
	if slot <= SlotNone || slot >= slotCount {
		return
	}
	st.values[slot] = value
	st.set[slot] = true
	st.last = slot
}

// Get returns the value of slot and whether it is present.
func (st *State) Get(slot Slot) (string, bool) {
	if slot <= SlotNone || slot >= slotCount || !st.set[slot] {
		return "", false
	}
	return st.values[slot], true
}

// Value returns the value of slot or "" when absent.
func (st *State) Value(slot Slot) string {
	v, _ := st.Get(slot)
	return v
}

// Has reports whether slot holds a value.
func (st *State) Has(slot Slot) bool {
	_, ok := st.Get(slot)
	return ok
}

// HasAll reports whether every given slot holds a value.
func (st *State) HasAll(slots ...Slot) bool {
	for _, s := range slots {
		if !st.Has(s) {
			return false
		}
	}
	return true
}

// Last returns the slot written most recently, SlotNone after a reset.
func (st *State) Last() Slot {
	return st.last
}

// LastIs reports whether slot was written most recently.
func (st *State) LastIs(slot Slot) bool {
	return st.last == slot
}

// ClearLast forgets the last-set slot but keeps the values.
func (st *State) ClearLast() {
	st.last = SlotNone
}

// Reset clears all slots and the last-set pointer.
func (st *State) Reset() {
	*st = State{}
}

// Empty reports whether no slot holds a value.
func (st *State) Empty() bool {
	for _, ok := range st.set {
		if ok {
			return false
		}
	}
	return st.last == SlotNone
}
