package report

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonebill-converter/internal/models"
	"github.com/insightdelivered/phonebill-converter/internal/parser"
)

func ptrDuration(d models.Duration) *models.Duration { return &d }

func intPtr(v int) *int { return &v }

func TestNew(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"inline", TypeInline, false},
		{"grouped", TypeGrouped, false},
		{" Inline ", TypeInline, false},
		{"pivot", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := New(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownType) {
					t.Errorf("expected ErrUnknownType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", b.Type(), tt.want)
			}
		})
	}
}

func TestInlineFromParsedGroup(t *testing.T) {
	p := parser.New(parser.Options{})
	res, err := p.ParseTokens("bill.pdf", []string{
		"123 456 789", "Hlasové služby",
		"Friends", "1", "00:05:30", "5,00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := Build(InlineBuilder{}, res.Book)
	want := []Row{{"123456789", "voice", "Friends", "6"}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want %v", table.Rows, want)
	}
	if !reflect.DeepEqual(table.Header, []string{"Number", "SMS", "Price", "Calls", "Price"}) {
		t.Errorf("header = %v", table.Header)
	}
}

func TestInlineFiltersUnpaidVoice(t *testing.T) {
	book := models.NewBook("bill.pdf")
	n := book.Resolve("123 456 789")
	voice := n.Service(models.ServiceVoice)
	voice.AddGroup(models.Group{Name: "Free", Amount: 2, Duration: ptrDuration(models.NewDuration(0, 3, 0)), Price: decimal.Zero})
	voice.AddGroup(models.Group{Name: "Bonus", Amount: 1, Duration: ptrDuration(models.NewDuration(0, 10, 0)), Price: decimal.Zero, ForFree: "00:10:00"})
	sms := n.Service(models.ServiceSMS)
	sms.AddGroup(models.Group{Name: "National", Amount: 12, Price: decimal.Zero})
	sms.AddGroup(models.Group{Name: "Abroad", Amount: 2, Price: decimal.NewFromInt(6)})

	got := InlineBuilder{}.Rows(book)
	want := []Row{
		{"123456789", "voice", "Bonus", "10"},
		{"123456789", "sms", "National", "12"},
		{"123456789", "sms", "Abroad", "2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestGroupedUsesSum(t *testing.T) {
	book := models.NewBook("bill.pdf")
	n := book.Resolve("123 456 789")
	n.Service(models.ServiceSMS).SetSum(models.Group{Name: "Celkem", Amount: 14, Price: decimal.RequireFromString("6.5")})
	n.Service(models.ServiceVoice).SetSum(models.Group{
		Name:     "Celkem",
		Amount:   3,
		Duration: ptrDuration(models.NewDuration(0, 20, 0)),
		Price:    decimal.NewFromInt(20),
	})
	// itemized lines are ignored when a subtotal exists
	n.AddSMS(models.SMS{Receiver: "607123456789", Price: decimal.NewFromInt(99)})

	got := GroupedBuilder{}.Rows(book)
	want := []Row{{"123456789", "14", "6.50", "00:20:00", "20.00"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestGroupedFallsBackToItemized(t *testing.T) {
	book := models.NewBook("bill.pdf")
	n := book.Resolve("123 456 789")
	n.AddSMS(models.SMS{Receiver: "607123456789", Price: decimal.RequireFromString("2.5")})
	n.AddSMS(models.SMS{Receiver: "607123456789", Amount: intPtr(3), Price: decimal.RequireFromString("4.5")})
	n.AddCall(models.Call{Receiver: "607123456789", Duration: models.NewDuration(0, 5, 30), Price: decimal.NewFromInt(5)})
	n.AddCall(models.Call{Receiver: "607000000000", Duration: models.NewDuration(0, 0, 45), Price: decimal.RequireFromString("0.75")})
	book.Resolve("987 654 321")

	got := GroupedBuilder{}.Rows(book)
	want := []Row{
		{"123456789", "4", "7.00", "00:06:15", "5.75"},
		{"987654321", "0", "0.00", "00:00:00", "0.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestBuildCombinesDocuments(t *testing.T) {
	a := models.NewBook("a.pdf")
	a.Resolve("123 456 789").Service(models.ServiceSMS).AddGroup(models.Group{Name: "National", Amount: 1})
	b := models.NewBook("b.pdf")
	b.Resolve("987 654 321").Service(models.ServiceSMS).AddGroup(models.Group{Name: "National", Amount: 2})

	table := Build(InlineBuilder{}, a, nil, b)
	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table.Rows))
	}
	if !reflect.DeepEqual(table.Sources, []string{"a.pdf", "b.pdf"}) {
		t.Errorf("sources = %v", table.Sources)
	}
	if table.Rows[1][0] != "987654321" {
		t.Errorf("second row account = %q", table.Rows[1][0])
	}
}
