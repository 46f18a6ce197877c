package report

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// GroupedBuilder emits one row per account: SMS count and price, then call
// duration and price. Values come from the subtotal group of each service;
// without one, the itemized calls and messages are summed instead.
type GroupedBuilder struct{}

func (GroupedBuilder) Type() string { return TypeGrouped }

func (GroupedBuilder) Rows(book *models.Book) []Row {
	rows := make([]Row, 0, len(book.Numbers))
	for _, n := range book.Numbers {
		smsCount, smsPrice := smsTotals(n)
		callTime, callPrice := callTotals(n)
		rows = append(rows, Row{
			n.ID,
			strconv.Itoa(smsCount),
			formatPrice(smsPrice),
			callTime.String(),
			formatPrice(callPrice),
		})
	}
	return rows
}

func smsTotals(n *models.Number) (int, decimal.Decimal) {
	if s := n.FindService(models.ServiceSMS); s != nil && s.Sum != nil {
		return s.Sum.Amount, s.Sum.Price
	}
	count, price := 0, decimal.Zero
	for _, m := range n.SMS {
		if m.Amount != nil {
			count += *m.Amount
		} else {
			count++
		}
		price = price.Add(m.Price)
	}
	return count, price
}

func callTotals(n *models.Number) (models.Duration, decimal.Decimal) {
	if s := n.FindService(models.ServiceVoice); s != nil && s.Sum != nil {
		var d models.Duration
		if s.Sum.Duration != nil {
			d = *s.Sum.Duration
		}
		return d, s.Sum.Price
	}
	var total models.Duration
	price := decimal.Zero
	for _, c := range n.Calls {
		total = total.Add(c.Duration)
		price = price.Add(c.Price)
	}
	return total, price
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
