package report

import (
	"strconv"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// InlineBuilder emits one row per account and usage category:
// paid voice groups as minutes, every sms group as a message count.
type InlineBuilder struct{}

func (InlineBuilder) Type() string { return TypeInline }

func (InlineBuilder) Rows(book *models.Book) []Row {
	var rows []Row
	for _, n := range book.Numbers {
		if s := n.FindService(models.ServiceVoice); s != nil {
			for _, g := range s.Groups {
				if !g.Paid() {
					continue
				}
				rows = append(rows, Row{n.ID, string(models.ServiceVoice), g.Name, strconv.Itoa(g.Minutes())})
			}
		}
		if s := n.FindService(models.ServiceSMS); s != nil {
			for _, g := range s.Groups {
				rows = append(rows, Row{n.ID, string(models.ServiceSMS), g.Name, strconv.Itoa(g.Amount)})
			}
		}
	}
	return rows
}
