package dealapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"dealdesk/internal/logger"
	"dealdesk/internal/mockapi"
	"dealdesk/internal/models"
	"dealdesk/internal/reqcache"

	"github.com/shopspring/decimal"
)

func newMock(t *testing.T) (*mockapi.Server, *Client) {
	t.Helper()
	srv := mockapi.New(mockapi.Options{CompanyID: 100})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, New(ts.URL, "api/v1/", logger.Nop())
}

func sampleDeal() mockapi.Deal {
	bill := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return mockapi.Deal{
		BuyerOrderNumber: strPtr("П-7"),
		SellerCompany: mockapi.Company{
			ID:          200,
			CompanyName: "АО «СтройСнаб»",
			INN:         "7812345678",
			Phone:       "8 (495) 123-45-67",
		},
		BuyerCompany: mockapi.Company{ID: 100, CompanyName: "ООО «Ромашка»"},
		Items: []mockapi.Item{{
			ProductName:       "Цемент М500",
			Quantity:          decimal.NewFromInt(40),
			UnitOfMeasurement: "мешок",
			Price:             decimal.RequireFromString("520.50"),
		}},
		BillNumber: "СЧ-15",
		BillDate:   &bill,
	}
}

func strPtr(s string) *string { return &s }

func TestJoinPath(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"/api/v1", "/deals/1", "/api/v1/deals/1"},
		{"api/v1/", "deals/1", "/api/v1/deals/1"},
		{"/api/v1", "/api/v1/deals/1", "/api/v1/deals/1"},
		{"/api/v1", "//deals//1", "/api/v1/deals/1"},
		{"", "/deals", "/deals"},
		{"/", "deals", "/deals"},
	}
	for _, tc := range cases {
		if got := joinPath(tc.base, tc.path); got != tc.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestRouteLabel(t *testing.T) {
	cases := map[string]string{
		"/deals/purchases":                "/deals/purchases",
		"/deals/42":                       "/deals/{id}",
		"/deals/42/versions/3/accept":     "/deals/{id}/versions/{id}/accept",
		"/deals/42/forms/supply_contract": "/deals/{id}/forms/supply_contract",
	}
	for in, want := range cases {
		if got := routeLabel(in); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSentinelForStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            ErrNotFound,
		http.StatusBadRequest:          ErrValidation,
		http.StatusUnprocessableEntity: ErrValidation,
		http.StatusConflict:            ErrConflict,
		http.StatusPreconditionFailed:  ErrConflict,
		http.StatusForbidden:           ErrConflict,
		http.StatusInternalServerError: ErrTransport,
		http.StatusBadGateway:          ErrTransport,
	}
	for status, want := range cases {
		if got := sentinelForStatus(status); got != want {
			t.Errorf("sentinelForStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+7 495 123-45-67":  "+74951234567",
		"8 (495) 123-45-67": "+74951234567",
		"  ":                "",
		"доб. 12":           "доб. 12",
	}
	for in, want := range cases {
		if got := normalizePhone(in, "RU"); got != want {
			t.Errorf("normalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetDeal(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())

	deal, err := client.GetDeal(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("GetDeal: %v", err)
	}

	if deal.Kind != models.DealKindGoods || deal.Status != models.DealStatusActive || deal.Version != 1 {
		t.Fatalf("kind=%s status=%s version=%d", deal.Kind, deal.Status, deal.Version)
	}
	if deal.BuyerOrderNumber == nil || *deal.BuyerOrderNumber != "П-7" || deal.SellerOrderNumber != nil {
		t.Fatalf("order numbers: buyer=%v seller=%v", deal.BuyerOrderNumber, deal.SellerOrderNumber)
	}
	if deal.Seller.Phone != "+74951234567" {
		t.Fatalf("seller phone = %q", deal.Seller.Phone)
	}
	if len(deal.Items) != 1 || !deal.Items[0].Price.Equal(decimal.RequireFromString("520.5")) {
		t.Fatalf("items = %+v", deal.Items)
	}
	if deal.Documents.Bill == nil || deal.Documents.Bill.Number != "СЧ-15" || deal.Documents.Contract != nil {
		t.Fatalf("documents = %+v", deal.Documents)
	}
}

func TestGetDealNotFound(t *testing.T) {
	_, client := newMock(t)

	_, err := client.GetDeal(context.Background(), 404, nil)
	if !errors.Is(err, ErrNotFound) || !IsNotFound(err) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err is %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "deal_not_found" || apiErr.RequestID == "" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestGetDealMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 5, "seller_company": {"id": 0}, "buyer_company": {"id": 1}}`))
	}))
	defer ts.Close()
	client := New(ts.URL, "/api/v1", logger.Nop())

	if _, err := client.GetDeal(context.Background(), 5, nil); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGetDealBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "five"`))
	}))
	defer ts.Close()
	client := New(ts.URL, "/api/v1", logger.Nop())

	if _, err := client.GetDeal(context.Background(), 5, nil); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var auth, requestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		if r.URL.Path != "/api/v1/deals/purchases" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id": 3}, {"id": 1}]`))
	}))
	defer ts.Close()
	client := New(ts.URL, "/api/v1", logger.Nop(), WithToken("secret"))

	ids, err := client.ListDealIDs(context.Background(), models.RolePurchases)
	if err != nil {
		t.Fatalf("ListDealIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 {
		t.Fatalf("ids = %v", ids)
	}
	if auth != "Bearer secret" || requestID == "" {
		t.Fatalf("auth=%q request_id=%q", auth, requestID)
	}

	if _, err := client.ListDealIDs(context.Background(), models.Role("archive")); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRenderCacheServesRepeatedGets(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"id": 9, "seller_company": {"id": 1}, "buyer_company": {"id": 2}, "comments": "первый ответ"}`))
	}))
	defer ts.Close()

	cache := reqcache.NewMemory()
	client := New(ts.URL, "/api/v1", logger.Nop(), WithRenderCache(cache))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		deal, err := client.GetDeal(ctx, 9, nil)
		if err != nil {
			t.Fatalf("GetDeal #%d: %v", i, err)
		}
		if deal.Comments != "первый ответ" {
			t.Fatalf("comments = %q", deal.Comments)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("backend hits = %d, want 1", hits.Load())
	}

	version := 1
	if _, err := client.GetDeal(ctx, 9, &version); err != nil {
		t.Fatalf("GetDeal version: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("backend hits = %d, want 2 for a different query", hits.Load())
	}

	if err := client.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := client.GetDeal(ctx, 9, nil); err != nil {
		t.Fatalf("GetDeal after clear: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("backend hits = %d, want 3 after clear", hits.Load())
	}
}

func TestFreshSkipsRenderCache(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"id": 9, "seller_company": {"id": 1}, "buyer_company": {"id": 2}}`))
	}))
	defer ts.Close()

	cache := reqcache.NewMemory()
	client := New(ts.URL, "/api/v1", logger.Nop(), WithRenderCache(cache))
	ctx := Fresh(context.Background())

	for i := 0; i < 2; i++ {
		if _, err := client.GetDeal(ctx, 9, nil); err != nil {
			t.Fatalf("GetDeal #%d: %v", i, err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("backend hits = %d, want 2", hits.Load())
	}
	if cache.Len() != 0 {
		t.Fatalf("cache holds %d entries after fresh reads", cache.Len())
	}
}

func TestRequestEntryFields(t *testing.T) {
	client := New("http://localhost", "/api/v1", logger.Nop())
	entry := client.requestEntry("req-7", http.MethodGet, "/deals/1")
	if entry.Data["request_id"] != "req-7" || entry.Data["component"] != "dealapi" || entry.Data["path"] != "/deals/1" {
		t.Fatalf("fields = %+v", entry.Data)
	}
}

func TestUpdateDealSendsNumericAmounts(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := New(ts.URL, "/api/v1", logger.Nop())
	err := client.UpdateDeal(context.Background(), 3, DealUpdate{
		SendItems: true,
		Items:     []models.LineItem{{Name: "Цемент", Quantity: decimal.RequireFromString("2.5"), Price: decimal.NewFromInt(120)}},
	})
	if err != nil {
		t.Fatalf("UpdateDeal: %v", err)
	}

	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %#v", body["items"])
	}
	item := items[0].(map[string]any)
	if q, ok := item["quantity"].(float64); !ok || q != 2.5 {
		t.Fatalf("quantity = %#v, want number 2.5", item["quantity"])
	}
	if p, ok := item["price"].(float64); !ok || p != 120 {
		t.Fatalf("price = %#v, want number 120", item["price"])
	}
}

func TestUpdateDealValidatesItems(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())

	err := client.UpdateDeal(context.Background(), id, DealUpdate{
		SendItems: true,
		Items:     []models.LineItem{{Name: "", Quantity: decimal.NewFromInt(1)}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	remote, _ := srv.Deal(id)
	if len(remote.Items) != 1 {
		t.Fatalf("backend items touched: %d", len(remote.Items))
	}
}

func TestUpdateDealClearsItems(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())

	if err := client.UpdateDeal(context.Background(), id, DealUpdate{SendItems: true}); err != nil {
		t.Fatalf("UpdateDeal: %v", err)
	}
	remote, _ := srv.Deal(id)
	if len(remote.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(remote.Items))
	}
}

func TestReopenCompletedDealRejected(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())
	ctx := context.Background()

	completed, active := models.DealStatusCompleted, models.DealStatusActive
	if err := client.UpdateDeal(ctx, id, DealUpdate{Status: &completed}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := client.UpdateDeal(ctx, id, DealUpdate{Status: &active}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestGenerateDocumentWithDate(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())

	date := time.Date(2026, 5, 20, 15, 4, 0, 0, time.UTC)
	ref, err := client.GenerateDocument(context.Background(), id, models.DocumentContract, &date)
	if err != nil {
		t.Fatalf("GenerateDocument: %v", err)
	}
	if ref.Date == nil || ref.Date.Format(dateLayout) != "2026-05-20" {
		t.Fatalf("date = %v", ref.Date)
	}

	deal, _ := client.GetDeal(context.Background(), id, nil)
	if deal.Documents.Contract == nil || deal.Documents.Contract.Number != ref.Number {
		t.Fatalf("contract = %+v", deal.Documents.Contract)
	}
}

func TestFormConditionalSave(t *testing.T) {
	srv, client := newMock(t)
	id := srv.AddDeal(sampleDeal())
	ctx := context.Background()

	form, err := client.GetForm(ctx, id, models.SlotBill)
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if form.UpdatedAt != nil || form.UpdatedByCompanyID != nil {
		t.Fatalf("fresh form = %+v", form)
	}

	saved, err := client.SaveForm(ctx, id, models.SlotBill, map[string]any{"bank": "Сбербанк"}, nil)
	if err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	if saved.UpdatedByCompanyID == nil || *saved.UpdatedByCompanyID != 100 || saved.UpdatedAt == nil {
		t.Fatalf("saved = %+v", saved)
	}

	stale := saved.UpdatedAt.Add(-time.Minute)
	_, err = client.SaveForm(ctx, id, models.SlotBill, map[string]any{"bank": "ВТБ"}, &stale)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	if _, err := client.SaveForm(ctx, id, models.SlotBill, map[string]any{"bank": "ВТБ"}, saved.UpdatedAt); err != nil {
		t.Fatalf("SaveForm with current stamp: %v", err)
	}
}

func TestCheckout(t *testing.T) {
	srv, client := newMock(t)
	srv.AddProduct(mockapi.Product{ID: 1, Name: "Кирпич", Unit: "шт", Price: decimal.NewFromInt(38), SellerID: 200})
	srv.AddProduct(mockapi.Product{ID: 2, Name: "Арматура", Unit: "м", Price: decimal.NewFromInt(95), SellerID: 300})

	ids, err := client.Checkout(context.Background(), []models.CartItem{
		{Product: models.Product{ID: 1}, Quantity: 100},
		{Product: models.Product{ID: 2}, Quantity: 12},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want one deal per seller", ids)
	}

	if _, err := client.Checkout(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty checkout err = %v, want ErrValidation", err)
	}
}
