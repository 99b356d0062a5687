package render

import (
	"salamyar/services/selection"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	shortlistTitle     = "محصولات انتخاب شده"
	shortlistEmpty     = "فهرست محصولات انتخابی شما خالی است"
	shortlistEmptyHint = "برای شروع، محصولات مورد نظر خود را جستجو کرده و انتخاب کنید"
	processing         = "در حال پردازش..."
	selectedAt         = "انتخاب شده در"
)

// Shortlist prints the selected products. An empty shortlist prints nothing
// unless the user has selected something before.
func (r Renderer) Shortlist(state selection.State) {
	if len(state.Products) == 0 {
		if state.EverSelected {
			r.line(shortlistEmpty)
			r.line(shortlistEmptyHint)
		}
		return
	}

	t := r.newTable()
	t.SetTitle("%s (%s)", shortlistTitle, r.format.Products(len(state.Products)))
	t.AppendHeader(table.Row{"شناسه", "نام", "فروشنده", selectedAt})
	for _, p := range state.Products {
		date := p.SelectedAt
		if parsed, err := p.SelectedTime(); err == nil {
			date = r.format.Date(parsed)
		}
		t.AppendRow(table.Row{p.ProductID, p.ProductName, p.VendorName, date})
	}
	t.Render()

	if state.Loading {
		r.line(processing)
	}
}
