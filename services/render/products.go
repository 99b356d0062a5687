package render

import (
	"salamyar/services/search"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	showingResults   = "نمایش %s نتیجه برای \"%s\""
	searchingFor     = "در حال جستجو برای \"%s\"..."
	loadFailedTitle  = "خطا در بارگذاری محصولات"
	notFoundTitle    = "محصولی یافت نشد"
	notFoundHint     = "برای یافتن محصولات، عبارت جستجوی خود را وارد کنید"
	loadingMore      = "در حال بارگذاری محصولات بیشتر..."
	endOfResults     = "به انتهای فهرست محصولات رسیده‌اید"
	moreHint         = "برای نمایش محصولات بیشتر «more» را وارد کنید"
	badgeUnavailable = "ناموجود"
	badgeFreeShip    = "ارسال رایگان"
	badgeSelected    = "انتخاب شده"
)

// SearchHeader prints the line above the grid. Nothing is printed before the
// first search.
func (r Renderer) SearchHeader(state search.State) {
	if state.CurrentQuery == "" {
		return
	}
	if state.TotalCount > 0 {
		r.line(showingResults, r.format.Number(int64(state.TotalCount)), state.CurrentQuery)
		return
	}
	if state.Loading {
		r.line(searchingFor, state.CurrentQuery)
	}
}

// ProductGrid prints the result set, numbered from 1 so rows can be picked
// by index. `selectedID` marks the product chosen for the current search
// session, 0 for none.
func (r Renderer) ProductGrid(state search.State, selectedID int64, showMoreHint bool) {
	if state.Error != "" && len(state.Products) == 0 {
		r.line(loadFailedTitle)
		r.Error(state.Error)
		return
	}
	if len(state.Products) == 0 {
		if !state.Loading {
			r.line(notFoundTitle)
			r.line(notFoundHint)
		}
		return
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", "نام", "فروشنده", "وضعیت", "دسته‌بندی", "امتیاز", "قیمت", "موجودی", ""})
	for i, p := range state.Products {
		var badges []string
		if !p.IsAvailable {
			badges = append(badges, badgeUnavailable)
		}
		if p.HasFreeShipping {
			badges = append(badges, badgeFreeShip)
		}
		if selectedID != 0 && p.ID == selectedID {
			badges = append(badges, badgeSelected)
		}

		stock := ""
		if p.StockCount() > 0 {
			stock = r.format.Stock(p.StockCount())
		}

		t.AppendRow(table.Row{
			i + 1,
			p.Name,
			p.VendorName,
			p.StatusTitle,
			p.CategoryTitle,
			r.format.Rating(p.RatingAverage, p.Ratings()),
			r.format.Price(p.PriceRials()),
			stock,
			strings.Join(badges, "، "),
		})
	}
	t.Render()

	// a failed "load more" keeps the rows above
	r.Error(state.Error)

	switch {
	case state.Loading:
		r.line(loadingMore)
	case state.HasMore:
		if showMoreHint {
			r.line(moreHint)
		}
	default:
		r.line(endOfResults)
	}
}
