package render

import (
	"fmt"
	"salamyar/lib/platforms/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	reportTitle           = "نتایج تحلیل سبد خرید"
	reportSelected        = "محصولات انتخابی شما"
	reportSimilar         = "محصولات مشابه یافت شده"
	reportVendors         = "فروشندگان با چندین محصول"
	reportVendorsHeading  = "فروشندگانی که حداقل ۲ محصول از لیست شما را دارند:"
	reportNoVendors       = "هیچ فروشنده‌ای چندین محصول از لیست شما را ندارد"
	reportNoVendorsHint   = "متأسفانه فروشنده‌ای یافت نشد که بیش از یک محصول از لیست انتخابی شما را داشته باشد. ممکن است لازم باشد از فروشندگان مختلف خرید کنید."
	reportVendorHolds     = "این فروشنده %s از لیست شما را دارد"
	reportSummaryTitle    = "خلاصه پردازش:"
	reportSummaryFallback = "محصول %s"
	reportSummaryCounts   = "%s محصول مشابه - %s فروشنده"
)

// Report prints the vendor-match result of a cart confirmation.
func (r Renderer) Report(c catalog.CartConfirmation) {
	t := r.newTable()
	t.SetTitle(reportTitle)
	t.AppendRow(table.Row{reportSelected, r.format.Number(int64(c.TotalSelectedProducts))})
	t.AppendRow(table.Row{reportSimilar, r.format.Number(int64(c.TotalSimilarProductsFound))})
	t.AppendRow(table.Row{reportVendors, r.format.Number(int64(len(c.VendorsWithMultipleMatches)))})
	t.Render()

	r.line("")
	r.line(reportVendorsHeading)
	if len(c.VendorsWithMultipleMatches) == 0 {
		r.line(reportNoVendors)
		r.line(reportNoVendorsHint)
	}
	for _, vendor := range c.VendorsWithMultipleMatches {
		r.line("%s: %s", vendor.VendorName, fmt.Sprintf(reportVendorHolds, r.format.Products(vendor.MatchedProductsCount)))
		vt := r.newTable()
		vt.AppendHeader(table.Row{"نام", "قیمت", "محصول اصلی شما", "لینک"})
		for _, p := range vendor.SimilarProducts {
			vt.AppendRow(table.Row{p.Name, r.format.Price(p.PriceRials()), p.OriginalProductID, p.BasalamURL})
		}
		vt.Render()
	}

	summaries := c.Summaries()
	if len(summaries) == 0 {
		return
	}
	r.line("")
	r.line(reportSummaryTitle)
	for _, s := range summaries {
		name := s.ProductName
		if name == "" {
			name = fmt.Sprintf(reportSummaryFallback, s.ProductID)
		}
		counts := fmt.Sprintf(
			reportSummaryCounts,
			r.format.Number(int64(s.SimilarProductsFound)),
			r.format.Number(int64(s.VendorsFound)),
		)
		r.line("- %s: %s", name, counts)
	}
}
