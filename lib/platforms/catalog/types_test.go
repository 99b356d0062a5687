package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProductImageURL(t *testing.T) {
	require.Equal(t, "m", Product{Image: ProductImage{Medium: "m", Small: "s"}}.ImageURL())
	require.Equal(t, "s", Product{Image: ProductImage{Small: "s"}}.ImageURL())
	require.Equal(t, "", Product{}.ImageURL())
}

func TestSelectedTime(t *testing.T) {
	naive := SelectedProduct{SelectedAt: "2024-05-01T10:30:00.123456"}
	parsed, err := naive.SelectedTime()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 123456000, time.UTC), parsed)

	zoned := SelectedProduct{SelectedAt: "2024-05-01T10:30:00Z"}
	parsed, err = zoned.SelectedTime()
	require.NoError(t, err)
	require.Equal(t, 2024, parsed.Year())

	_, err = SelectedProduct{SelectedAt: "yesterday"}.SelectedTime()
	require.Error(t, err)
}

func TestSummaries(t *testing.T) {
	var confirmation CartConfirmation
	err := json.Unmarshal([]byte(`{
		"total_selected_products": 3,
		"total_similar_products_found": 10,
		"vendors_with_multiple_matches": [],
		"processing_summary": {
			"12": {"product_name": "چای", "similar_products_found": 4, "vendors_found": 2},
			"3": {"similar_products_found": "6", "vendors_found": 1},
			"error": "timeout"
		}
	}`), &confirmation)
	require.NoError(t, err)

	summaries := confirmation.Summaries()
	require.Equal(t, []ProductSummary{
		{ProductID: "3", SimilarProductsFound: 6, VendorsFound: 1},
		{ProductID: "12", ProductName: "چای", SimilarProductsFound: 4, VendorsFound: 2},
		{ProductID: "error"},
	}, summaries)
}

func TestSortSummariesMixedKeys(t *testing.T) {
	ids := func(summaries []ProductSummary) []string {
		var out []string
		for _, s := range summaries {
			out = append(out, s.ProductID)
		}
		return out
	}

	orders := [][]string{
		{"b", "10", "a", "2", "1"},
		{"1", "a", "10", "b", "2"},
		{"a", "b", "2", "10", "1"},
	}
	for _, order := range orders {
		var summaries []ProductSummary
		for _, id := range order {
			summaries = append(summaries, ProductSummary{ProductID: id})
		}
		sortSummaries(summaries)
		require.Equal(t, []string{"1", "2", "10", "a", "b"}, ids(summaries))
	}
}
