package render

import (
	"bytes"
	"encoding/json"
	"salamyar/lib/locale"
	"salamyar/lib/platforms/authapi"
	"salamyar/lib/platforms/catalog"
	"salamyar/services/search"
	"salamyar/services/selection"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func setup() (Renderer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(out, locale.New(language.English)), out
}

var honey = catalog.Product{
	ID:              7,
	Name:            "عسل طبیعی",
	Price:           1250000,
	VendorName:      "زنبورستان",
	StatusTitle:     "فعال",
	CategoryTitle:   "خوراکی",
	IsAvailable:     true,
	HasFreeShipping: true,
	RatingAverage:   4.5,
	RatingCount:     12,
	Stock:           3,
}

func TestSearchHeader(t *testing.T) {
	r, out := setup()
	r.SearchHeader(search.State{})
	require.Empty(t, out.String())

	r.SearchHeader(search.State{CurrentQuery: "عسل", Loading: true})
	require.Contains(t, out.String(), `در حال جستجو برای "عسل"...`)

	out.Reset()
	r.SearchHeader(search.State{CurrentQuery: "عسل", TotalCount: 1500})
	require.Contains(t, out.String(), `نمایش 1,500 نتیجه برای "عسل"`)
}

func TestProductGrid(t *testing.T) {
	r, out := setup()
	unavailable := honey
	unavailable.ID = 8
	unavailable.Name = "عسل کوهستان"
	unavailable.IsAvailable = false
	unavailable.HasFreeShipping = false
	unavailable.Stock = 0

	r.ProductGrid(search.State{
		Products:     []catalog.Product{honey, unavailable},
		HasMore:      true,
		CurrentQuery: "عسل",
	}, 7, true)

	rendered := out.String()
	require.Contains(t, rendered, "عسل طبیعی")
	require.Contains(t, rendered, "1,250,000 ریال")
	require.Contains(t, rendered, "4.5 (12 نظر)")
	require.Contains(t, rendered, "3 عدد موجود")
	require.Contains(t, rendered, "ارسال رایگان، انتخاب شده")
	require.Contains(t, rendered, "ناموجود")
	require.Contains(t, rendered, moreHint)
	require.NotContains(t, rendered, endOfResults)

	out.Reset()
	r.ProductGrid(search.State{Products: []catalog.Product{honey}, CurrentQuery: "عسل"}, 0, true)
	require.Contains(t, out.String(), endOfResults)
	require.NotContains(t, out.String(), badgeSelected)
}

func TestProductGridEmpty(t *testing.T) {
	r, out := setup()
	r.ProductGrid(search.State{CurrentQuery: "xyz"}, 0, true)
	require.Contains(t, out.String(), notFoundTitle)

	out.Reset()
	r.ProductGrid(search.State{CurrentQuery: "xyz", Loading: true}, 0, true)
	require.Empty(t, out.String())

	out.Reset()
	r.ProductGrid(search.State{CurrentQuery: "xyz", Error: search.MessageSearchFailed}, 0, true)
	require.Contains(t, out.String(), loadFailedTitle)
	require.Contains(t, out.String(), search.MessageSearchFailed)
}

func TestShortlist(t *testing.T) {
	r, out := setup()
	r.Shortlist(selection.State{})
	require.Empty(t, out.String())

	r.Shortlist(selection.State{EverSelected: true})
	require.Contains(t, out.String(), shortlistEmpty)

	out.Reset()
	r.Shortlist(selection.State{
		Products: []catalog.SelectedProduct{
			{ID: 1, ProductID: 7, ProductName: "عسل طبیعی", VendorName: "زنبورستان", SelectedAt: "2024-05-01T10:00:00"},
			{ID: 2, ProductID: 9, ProductName: "زعفران", VendorName: "قائنات", SelectedAt: "garbage"},
		},
		Loading: true,
	})
	rendered := out.String()
	require.Contains(t, rendered, "2 محصول")
	require.Contains(t, rendered, "1403/2/12")
	require.Contains(t, rendered, "garbage")
	require.Contains(t, rendered, processing)
}

func TestReport(t *testing.T) {
	r, out := setup()
	r.Report(catalog.CartConfirmation{
		TotalSelectedProducts:     2,
		TotalSimilarProductsFound: 5,
		VendorsWithMultipleMatches: []catalog.VendorMatch{{
			VendorID:             3,
			VendorName:           "بازارچه",
			MatchedProductsCount: 2,
			SimilarProducts: []catalog.SimilarProduct{
				{ID: 11, Name: "عسل مشابه", Price: 990000, BasalamURL: "https://basalam.com/p/11", OriginalProductID: 7},
			},
		}},
		ProcessingSummary: map[string]json.RawMessage{
			"9": json.RawMessage(`{"similar_products_found": 2, "vendors_found": 1}`),
			"7": json.RawMessage(`{"product_name": "عسل طبیعی", "similar_products_found": 3, "vendors_found": 2}`),
		},
	})

	rendered := out.String()
	require.Contains(t, rendered, "بازارچه")
	require.Contains(t, rendered, "این فروشنده 2 محصول از لیست شما را دارد")
	require.Contains(t, rendered, "https://basalam.com/p/11")
	require.Contains(t, rendered, "990,000 ریال")
	require.NotContains(t, rendered, reportNoVendors)

	first := strings.Index(rendered, "- عسل طبیعی: 3 محصول مشابه - 2 فروشنده")
	second := strings.Index(rendered, "- محصول 9: 2 محصول مشابه - 1 فروشنده")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
}

func TestReportNoVendors(t *testing.T) {
	r, out := setup()
	r.Report(catalog.CartConfirmation{TotalSelectedProducts: 1})
	require.Contains(t, out.String(), reportNoVendors)
	require.NotContains(t, out.String(), reportSummaryTitle)
}

func TestUser(t *testing.T) {
	r, out := setup()
	r.User(nil)
	require.Contains(t, out.String(), signedOut)

	out.Reset()
	r.User(&authapi.User{Username: "sara", Phone: "0912"})
	require.Contains(t, out.String(), "خوش آمدید، sara")
	require.Contains(t, out.String(), "0912")
}
