package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumberMatches(t *testing.T) {
	n := NewNumber("123 456 789")
	if n.ID != "123456789" {
		t.Errorf("ID = %q, want %q", n.ID, "123456789")
	}
	for _, id := range []string{"123 456 789", "123456789", " 123 456  789 "} {
		if !n.Matches(id) {
			t.Errorf("Matches(%q) = false, want true", id)
		}
	}
	if n.Matches("987 654 321") {
		t.Error("Matches(other) = true, want false")
	}
}

func TestBookResolveReusesAccount(t *testing.T) {
	b := NewBook("bill.pdf")
	first := b.Resolve("123 456 789")
	second := b.Resolve("123456789")
	if first != second {
		t.Error("Resolve returned a different account for the same identifier")
	}
	b.Resolve("987 654 321")
	if len(b.Numbers) != 2 {
		t.Errorf("accounts: got %d, want 2", len(b.Numbers))
	}
}

func TestNumberServiceCreatedLazily(t *testing.T) {
	n := NewNumber("123 456 789")
	if n.FindService(ServiceVoice) != nil {
		t.Fatal("service exists before first use")
	}
	s := n.Service(ServiceVoice)
	if !s.IsKind(ServiceVoice) {
		t.Errorf("kind = %q, want voice", s.Kind)
	}
	if n.Service(ServiceVoice) != s {
		t.Error("second lookup created a new service")
	}
	if len(n.Services) != 1 {
		t.Errorf("services: got %d, want 1", len(n.Services))
	}
}

func TestServiceSetSumOnce(t *testing.T) {
	s := &Service{Kind: ServiceSMS}
	if !s.SetSum(Group{Name: "Celkem", Amount: 3}) {
		t.Fatal("first SetSum returned false")
	}
	if s.SetSum(Group{Name: "Celkem", Amount: 5}) {
		t.Error("second SetSum returned true")
	}
	if s.Sum.Amount != 3 {
		t.Errorf("sum amount: got %d, want 3", s.Sum.Amount)
	}
}

func TestGroupPaid(t *testing.T) {
	tests := []struct {
		name string
		g    Group
		want bool
	}{
		{"priced", Group{Price: decimal.NewFromInt(5)}, true},
		{"free", Group{Price: decimal.Zero}, false},
		{"free with override", Group{Price: decimal.Zero, ForFree: "00:10:00"}, true},
		{"credit", Group{Price: decimal.NewFromInt(-1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Paid(); got != tt.want {
				t.Errorf("Paid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookCounts(t *testing.T) {
	b := NewBook("bill.pdf")
	n := b.Resolve("123 456 789")
	n.AddCall(Call{Receiver: "607123456789"})
	n.AddSMS(SMS{Receiver: "607123456789"})
	n.AddSMS(SMS{Receiver: "607000000000"})
	s := n.Service(ServiceVoice)
	s.AddGroup(Group{Name: "Friends"})
	s.SetSum(Group{Name: "Celkem"})

	calls, sms, groups := b.Counts()
	if calls != 1 || sms != 2 || groups != 2 {
		t.Errorf("Counts() = %d, %d, %d; want 1, 2, 2", calls, sms, groups)
	}
}
