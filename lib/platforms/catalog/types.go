package catalog

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"
)

type ProductImage struct {
	Medium string `json:"medium,omitempty"`
	Small  string `json:"small,omitempty"`
}

// Product is a search result snapshot, it is only ever displayed.
type Product struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Price           float64      `json:"price"`
	Image           ProductImage `json:"image"`
	VendorID        int64        `json:"vendor_id"`
	VendorName      string       `json:"vendor_name"`
	StatusID        int64        `json:"status_id"`
	StatusTitle     string       `json:"status_title"`
	CategoryTitle   string       `json:"category_title"`
	IsAvailable     bool         `json:"is_available"`
	HasFreeShipping bool         `json:"has_free_shipping"`
	RatingAverage   float64      `json:"rating_average"`
	RatingCount     float64      `json:"rating_count"`
	Stock           float64      `json:"stock"`
}

// PriceRials is Price rounded to whole rials.
func (p Product) PriceRials() int64 {
	return whole(p.Price)
}

func (p Product) StockCount() int64 {
	return whole(p.Stock)
}

func (p Product) Ratings() int64 {
	return whole(p.RatingCount)
}

// whole rounds a wire number to an integer, backends may send 150000.0 for
// an integral amount.
func whole(n float64) int64 {
	return int64(math.Round(n))
}

// ImageURL returns the best available image, medium before small.
func (p Product) ImageURL() string {
	if p.Image.Medium != "" {
		return p.Image.Medium
	}
	return p.Image.Small
}

type SearchMeta struct {
	TotalCount    int  `json:"total_count"`
	PageSize      int  `json:"page_size"`
	CurrentOffset int  `json:"current_offset"`
	HasMore       bool `json:"has_more"`
}

// NextOffset is the `from` of the page after this one.
func (m SearchMeta) NextOffset() int {
	return m.CurrentOffset + m.PageSize
}

type SearchResponse struct {
	Products []Product  `json:"products"`
	Meta     SearchMeta `json:"meta"`
}

type SelectedProduct struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	VendorID        int64  `json:"vendor_id"`
	VendorName      string `json:"vendor_name"`
	StatusID        int64  `json:"status_id"`
	ImageURL        string `json:"image_url,omitempty"`
	SelectedAt      string `json:"selected_at"`
	SearchSessionID string `json:"search_session_id,omitempty"`
}

// SelectedTime parses SelectedAt, servers send either RFC3339 or a naive
// ISO timestamp.
func (s SelectedProduct) SelectedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s.SelectedAt)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999999", s.SelectedAt)
}

type SelectedProductsResponse struct {
	Products   []SelectedProduct `json:"products"`
	TotalCount int               `json:"total_count"`
}

type SelectProductRequest struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	VendorID        int64  `json:"vendor_id"`
	VendorName      string `json:"vendor_name"`
	StatusID        int64  `json:"status_id"`
	ImageURL        string `json:"image_url,omitempty"`
	SearchSessionID string `json:"search_session_id,omitempty"`
}

// NewSelectProductRequest builds the selection record for a search result.
func NewSelectProductRequest(p Product, sessionID string) SelectProductRequest {
	return SelectProductRequest{
		ProductID:       p.ID,
		ProductName:     p.Name,
		VendorID:        p.VendorID,
		VendorName:      p.VendorName,
		StatusID:        p.StatusID,
		ImageURL:        p.ImageURL(),
		SearchSessionID: sessionID,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type SimilarProduct struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	VendorID          int64   `json:"vendor_id"`
	VendorName        string  `json:"vendor_name"`
	StatusID          int64   `json:"status_id"`
	ImageURL          string  `json:"image_url,omitempty"`
	BasalamURL        string  `json:"basalam_url"`
	OriginalProductID int64   `json:"original_product_id"`
}

func (p SimilarProduct) PriceRials() int64 {
	return whole(p.Price)
}

// VendorMatch is a vendor holding at least two of the shortlisted products.
type VendorMatch struct {
	VendorID             int64            `json:"vendor_id"`
	VendorName           string           `json:"vendor_name"`
	MatchedProductsCount int              `json:"matched_products_count"`
	UserSelectedProducts []int64          `json:"user_selected_products"`
	SimilarProducts      []SimilarProduct `json:"similar_products"`
}

type CartConfirmation struct {
	TotalSelectedProducts      int                        `json:"total_selected_products"`
	TotalSimilarProductsFound  int                        `json:"total_similar_products_found"`
	VendorsWithMultipleMatches []VendorMatch              `json:"vendors_with_multiple_matches"`
	ProcessingSummary          map[string]json.RawMessage `json:"processing_summary"`
}

// ProductSummary is one processing_summary entry.
type ProductSummary struct {
	ProductID            string
	ProductName          string
	SimilarProductsFound int
	VendorsFound         int
}

// Summaries reads processing_summary leniently: entries that are not objects
// still produce a row keyed by their product id, with zero counts.
func (c CartConfirmation) Summaries() []ProductSummary {
	out := make([]ProductSummary, 0, len(c.ProcessingSummary))
	for productID, raw := range c.ProcessingSummary {
		var entry struct {
			ProductName          string          `json:"product_name"`
			SimilarProductsFound json.RawMessage `json:"similar_products_found"`
			VendorsFound         json.RawMessage `json:"vendors_found"`
		}
		_ = json.Unmarshal(raw, &entry)
		out = append(out, ProductSummary{
			ProductID:            productID,
			ProductName:          entry.ProductName,
			SimilarProductsFound: lenientInt(entry.SimilarProductsFound),
			VendorsFound:         lenientInt(entry.VendorsFound),
		})
	}
	sortSummaries(out)
	return out
}

func lenientInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return int(f)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		n, err := strconv.Atoi(s)
		if err == nil {
			return n
		}
	}
	return 0
}

// sortSummaries puts numeric product ids first in numeric order, then the
// rest lexically.
func sortSummaries(summaries []ProductSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, aerr := strconv.ParseInt(summaries[i].ProductID, 10, 64)
		b, berr := strconv.ParseInt(summaries[j].ProductID, 10, 64)
		switch {
		case aerr == nil && berr == nil:
			if a != b {
				return a < b
			}
		case aerr == nil:
			return true
		case berr == nil:
			return false
		}
		return summaries[i].ProductID < summaries[j].ProductID
	})
}
