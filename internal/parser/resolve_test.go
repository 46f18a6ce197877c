package parser

import (
	"testing"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

func TestShapeOf(t *testing.T) {
	v := DefaultVocabulary()
	tests := []struct {
		token string
		want  Shape
	}{
		{"123 456 789", ShapeAccount},
		{"Hlasové služby", ShapeSection},
		{"ZPRÁVY SMS", ShapeSection},
		{"voice", ShapeKind},
		{"sms", ShapeKind},
		{"connect", ShapeKind},
		{"group calls", ShapeGroupCalls},
		{"21 %", ShapeVAT},
		{"15.3.", ShapeShortDate},
		{"15.3.2012", ShapeFullDate},
		{"Strana 2", ShapePageMarker},
		{"2/5", ShapeNoise},
		{"Mezisoučet", ShapeNoise},
		{"607123456789", ShapeReceiver},
		{"60712345678", ShapeReceiver},
		{"00:05:30", ShapeTime},
		{"5,00", ShapePrice},
		{"-1,50", ShapePrice},
		{"12", ShapeInteger},
		{"123456789", ShapeInteger},
		{"Friends", ShapeText},
		{"voicemail", ShapeText},
		{"1234567890123", ShapeText},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := v.ShapeOf(tt.token); got != tt.want {
				t.Errorf("ShapeOf(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestSection(t *testing.T) {
	v := DefaultVocabulary()
	kind, ok := v.Section("Datové služby")
	if !ok || kind != models.ServiceData {
		t.Errorf("Section = %q, %v; want data, true", kind, ok)
	}
	if _, ok := v.Section("Friends"); ok {
		t.Error("Section(Friends) matched")
	}
}

func TestIsTotal(t *testing.T) {
	v := DefaultVocabulary()
	tests := []struct {
		name string
		want bool
	}{
		{"Celkem", true},
		{"celkem za službu", true},
		{"Total", true},
		{"Totally free", false},
		{"Friends", false},
	}
	for _, tt := range tests {
		if got := v.IsTotal(tt.name); got != tt.want {
			t.Errorf("IsTotal(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		view  View
		want  Action
	}{
		{"account", ShapeAccount, View{Last: SlotPrice}, Action{Op: OpAccount}},
		{"section", ShapeSection, View{}, Action{Op: OpSection}},
		{"kind", ShapeKind, View{Last: SlotReceiver}, Action{Op: OpKind, Slot: SlotKind}},
		{"group calls", ShapeGroupCalls, View{}, Action{Op: OpKind, Slot: SlotKind}},
		{"vat", ShapeVAT, View{}, set(SlotVAT)},
		{"short date after kind", ShapeShortDate, View{Last: SlotKind}, set(SlotDate)},
		{"short date elsewhere", ShapeShortDate, View{Last: SlotReceiver}, Action{Op: OpInvalid}},
		{"short date after reset", ShapeShortDate, View{}, Action{Op: OpInvalid}},
		{"full date", ShapeFullDate, View{Last: SlotKind}, Action{Op: OpReset}},
		{"page marker", ShapePageMarker, View{}, Action{Op: OpReset}},
		{"noise", ShapeNoise, View{Last: SlotPrice}, Action{Op: OpIgnore}},
		{"receiver", ShapeReceiver, View{Last: SlotTime}, set(SlotReceiver)},

		{"time after date", ShapeTime, View{Last: SlotDate}, set(SlotTime)},
		{"time after receiver", ShapeTime, View{Last: SlotReceiver}, set(SlotDuration)},
		{"time after comment", ShapeTime, View{Last: SlotComment}, set(SlotForFree)},
		{"time after amount", ShapeTime, View{Last: SlotAmount, GroupBlock: true}, set(SlotDuration)},
		{"time after price", ShapeTime, View{Last: SlotPrice, GroupBlock: true}, set(SlotForFree)},
		{"time after kind", ShapeTime, View{Last: SlotKind}, unrecognized},
		{"time after reset", ShapeTime, View{}, unrecognized},

		{"price", ShapePrice, View{Last: SlotDuration}, set(SlotPrice)},
		{"integer after price", ShapeInteger, View{Last: SlotPrice}, set(SlotForFree)},
		{"integer after group", ShapeInteger, View{Last: SlotGroup}, set(SlotAmount)},
		{"integer after reset", ShapeInteger, View{}, set(SlotAmount)},

		{"text after duration", ShapeText, View{Last: SlotDuration}, set(SlotComment)},
		{"text after receiver", ShapeText, View{Last: SlotReceiver}, set(SlotComment)},
		{"text after itemized price", ShapeText, View{Last: SlotPrice, HasKind: true}, set(SlotComment)},
		{"text after group price", ShapeText, View{Last: SlotPrice, HasKind: true, GroupBlock: true, HasAmount: true}, unrecognized},
		{"text opens group", ShapeText, View{GroupBlock: true}, set(SlotGroup)},
		{"text after group amount", ShapeText, View{Last: SlotAmount, GroupBlock: true, HasAmount: true}, unrecognized},
		{"text outside any block", ShapeText, View{}, unrecognized},
		{"comment wins over group", ShapeText, View{Last: SlotDuration, GroupBlock: true}, set(SlotComment)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.shape, tt.view); got != tt.want {
				t.Errorf("Resolve(%v, %+v) = %+v, want %+v", tt.shape, tt.view, got, tt.want)
			}
		})
	}
}
