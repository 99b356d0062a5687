package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

func newTestServer(t testing.TB, status int, response string) (*Client, *[]recordedRequest) {
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	return client, &requests
}

func TestNewClientRequiresBaseUrl(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
}

func TestSearchProducts(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{
		"products": [
			{"id": 7, "name": "گوشی", "price": 1200000, "image": {"small": "s.jpg"}, "vendor_id": 3, "vendor_name": "غرفه", "is_available": true}
		],
		"meta": {"total_count": 50, "page_size": 12, "current_offset": 0, "has_more": true}
	}`)

	res, err := client.SearchProducts(context.Background(), "گوشی", 0, 12)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	require.Equal(t, int64(7), res.Products[0].ID)
	require.Equal(t, "s.jpg", res.Products[0].ImageURL())
	require.Equal(t, SearchMeta{TotalCount: 50, PageSize: 12, CurrentOffset: 0, HasMore: true}, res.Meta)
	require.Equal(t, 12, res.Meta.NextOffset())

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodGet, req.method)
	require.Equal(t, "/search/products", req.path)
	require.Contains(t, req.query, "from=0")
	require.Contains(t, req.query, "size=12")
	require.Contains(t, req.query, "q=%DA%AF%D9%88%D8%B4%DB%8C")
	require.Empty(t, req.auth)
}

func TestSelectProduct(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{
		"id": 1, "product_id": 7, "product_name": "گوشی", "vendor_id": 3, "vendor_name": "غرفه",
		"status_id": 2, "selected_at": "2024-05-01T10:00:00", "search_session_id": "s1"
	}`)

	product := Product{
		ID: 7, Name: "گوشی", VendorID: 3, VendorName: "غرفه", StatusID: 2,
		Image: ProductImage{Medium: "m.jpg", Small: "s.jpg"},
	}
	selected, err := client.SelectProduct(context.Background(), NewSelectProductRequest(product, "s1"))
	require.NoError(t, err)
	require.Equal(t, int64(7), selected.ProductID)
	require.Equal(t, "s1", selected.SearchSessionID)

	req := (*requests)[0]
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/selections/products", req.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.body), &sent))
	diff := cmp.Diff(map[string]any{
		"product_id":        float64(7),
		"product_name":      "گوشی",
		"vendor_id":         float64(3),
		"vendor_name":       "غرفه",
		"status_id":         float64(2),
		"image_url":         "m.jpg",
		"search_session_id": "s1",
	}, sent)
	require.Empty(t, diff)
}

func TestSelectionEndpoints(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"message": "ok", "success": true, "products": [], "total_count": 0}`)
	ctx := context.Background()

	_, err := client.SelectedProducts(ctx)
	require.NoError(t, err)
	msg, err := client.RemoveSelectedProduct(ctx, 42)
	require.NoError(t, err)
	require.True(t, msg.Success)
	_, err = client.ClearSelectedProducts(ctx)
	require.NoError(t, err)
	_, err = client.ConfirmCart(ctx)
	require.NoError(t, err)

	expected := [][2]string{
		{http.MethodGet, "/selections/products"},
		{http.MethodDelete, "/selections/products/42"},
		{http.MethodDelete, "/selections/products"},
		{http.MethodPost, "/selections/confirm"},
	}
	require.Len(t, *requests, len(expected))
	for i, e := range expected {
		require.Equal(t, e[0], (*requests)[i].method)
		require.Equal(t, e[1], (*requests)[i].path)
	}
}

func TestBearerToken(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"products": [], "total_count": 0}`)
	ctx := context.Background()

	client.SetToken("abc")
	_, err := client.SelectedProducts(ctx)
	require.NoError(t, err)
	client.SetToken("")
	_, err = client.SelectedProducts(ctx)
	require.NoError(t, err)

	require.Equal(t, "Bearer abc", (*requests)[0].auth)
	require.Empty(t, (*requests)[1].auth)
}

func TestTokenChangesDuringRequests(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Header.Get("Authorization")] = true
		mu.Unlock()
		w.Write([]byte(`{"products": [], "total_count": 0}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL, Token: "first"})
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := client.SelectedProducts(ctx)
			if err != nil {
				t.Error(err)
			}
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				client.SetToken("")
			} else {
				client.SetToken("second")
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for auth := range seen {
		require.Contains(t, []string{"", "Bearer first", "Bearer second"}, auth)
	}
}

func TestFractionalNumbers(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{
		"products": [
			{"id": 1, "name": "عسل", "price": 150000.0, "rating_average": 4.5, "rating_count": 12.0, "stock": 3.0},
			{"id": 2, "name": "چای", "price": 99999.6, "rating_count": 0, "stock": 2.4}
		],
		"meta": {"total_count": 2, "page_size": 12, "current_offset": 0, "has_more": false}
	}`)

	res, err := client.SearchProducts(context.Background(), "x", 0, 12)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	require.Equal(t, int64(150000), res.Products[0].PriceRials())
	require.Equal(t, int64(12), res.Products[0].Ratings())
	require.Equal(t, int64(3), res.Products[0].StockCount())
	require.Equal(t, int64(100000), res.Products[1].PriceRials())
	require.Equal(t, int64(2), res.Products[1].StockCount())
}

func TestConfirmCartFractionalPrice(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{
		"total_selected_products": 2,
		"total_similar_products_found": 1,
		"vendors_with_multiple_matches": [{
			"vendor_id": 4, "vendor_name": "غرفه", "matched_products_count": 2,
			"user_selected_products": [1, 2],
			"similar_products": [{"id": 9, "name": "عسل", "price": 250000.0, "original_product_id": 1}]
		}],
		"processing_summary": {}
	}`)

	res, err := client.ConfirmCart(context.Background())
	require.NoError(t, err)
	require.Len(t, res.VendorsWithMultipleMatches, 1)
	require.Equal(t, int64(250000), res.VendorsWithMultipleMatches[0].SimilarProducts[0].PriceRials())
}

func TestAPIError(t *testing.T) {
	testCases := []struct {
		status  int
		body    string
		message string
	}{
		{status: 404, body: `{"detail": "محصول یافت نشد"}`, message: "محصول یافت نشد"},
		{status: 422, body: `{"detail": [{"msg": "field required"}]}`, message: "field required"},
		{status: 400, body: `{"error": "bad request"}`, message: "bad request"},
		{status: 500, body: `not json`, message: "HTTP error! status: 500"},
		{status: 503, body: `{}`, message: "HTTP error! status: 503"},
	}

	for _, test := range testCases {
		client, _ := newTestServer(t, test.status, test.body)
		_, err := client.ConfirmCart(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, test.status, apiErr.Status)
		require.Equal(t, test.message, apiErr.Message)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"products": "nope"}`)
	_, err := client.SearchProducts(context.Background(), "x", 0, 12)
	require.Error(t, err)

	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestCancelledContext(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchProducts(ctx, "x", 0, 12)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, *requests)
}
