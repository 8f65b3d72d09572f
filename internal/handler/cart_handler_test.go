package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/middleware"
	"github.com/hitoshi/easyorder/internal/model"
)

type mockCartService struct {
	linesFn func(ctx context.Context, sessionID string) ([]model.CartLine, error)
	applyFn func(ctx context.Context, sessionID, productID string, delta int) error
	clearFn func(ctx context.Context, sessionID string) error
}

func (m *mockCartService) Lines(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	return m.linesFn(ctx, sessionID)
}

func (m *mockCartService) ApplyDelta(ctx context.Context, sessionID, productID string, delta int) error {
	return m.applyFn(ctx, sessionID, productID, delta)
}

func (m *mockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.clearFn(ctx, sessionID)
}

type mockRouteLister struct {
	listFn func(ctx context.Context) ([]*model.ShippingRoute, error)
}

func (m *mockRouteLister) List(ctx context.Context) ([]*model.ShippingRoute, error) {
	return m.listFn(ctx)
}

type mockUserProvider struct {
	findFn func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockUserProvider) FindByID(ctx context.Context, userID string) (*model.User, error) {
	return m.findFn(ctx, userID)
}

type stubCSVRecorder struct {
	rows []int
}

func (s *stubCSVRecorder) RecordCSVExport(rows int) {
	s.rows = append(s.rows, rows)
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.ContextWithUserID(req.Context(), "u-1")
	ctx = middleware.ContextWithSessionID(ctx, "sess-1")
	return req.WithContext(ctx)
}

func fixedCartLines() []model.CartLine {
	return []model.CartLine{
		{Product: model.Product{ID: "p-1", Name: "Teclado", Category: "Informática", Unit: "un", Price: decimal.NewFromInt(50)}, Quantity: 2},
		{Product: model.Product{ID: "p-2", Name: "Mouse", Category: "Informática", Unit: "un", Price: decimal.NewFromInt(30)}, Quantity: 1},
	}
}

func cartTestHandler(t *testing.T, recorder *stubCSVRecorder) (*CartHandler, *mockCartService) {
	t.Helper()
	service := &mockCartService{
		linesFn: func(ctx context.Context, sessionID string) ([]model.CartLine, error) {
			if sessionID != "sess-1" {
				t.Errorf("sessionID = %q, want sess-1", sessionID)
			}
			return fixedCartLines(), nil
		},
	}
	routes := &mockRouteLister{listFn: func(ctx context.Context) ([]*model.ShippingRoute, error) {
		return []*model.ShippingRoute{
			{ID: "r-1", Name: "Região Sudeste", Percentage: decimal.NewFromInt(10)},
		}, nil
	}}
	users := &mockUserProvider{findFn: func(ctx context.Context, userID string) (*model.User, error) {
		return &model.User{ID: "u-1", Username: "Padaria Silva", RegionID: "r-1"}, nil
	}}
	return NewCartHandler(service, routes, users, recorder), service
}

// TestGetCart はカート明細と地域料率込みの金額サマリーを検証する。
func TestGetCart(t *testing.T) {
	h, _ := cartTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.GetCart(rec, authedRequest(http.MethodGet, "/api/cart", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body cartResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if len(body.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(body.Items))
	}
	if body.Items[0].LineTotal != "100.00" {
		t.Errorf("line total = %q, want 100.00", body.Items[0].LineTotal)
	}
	// 小計130、ルート10% → 配送料13、合計143
	if body.Totals.Subtotal != "130.00" || body.Totals.Shipping != "13.00" || body.Totals.Total != "143.00" {
		t.Errorf("totals = %+v", body.Totals)
	}
	if body.Totals.RouteName != "Região Sudeste" || body.Totals.ItemsCount != 3 {
		t.Errorf("route = %q, items count = %d", body.Totals.RouteName, body.Totals.ItemsCount)
	}
}

// TestGetCart_Unauthorized はセッションコンテキストなしの401を検証する。
func TestGetCart_Unauthorized(t *testing.T) {
	h, _ := cartTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestUpdateCart は数量差分の適用と更新後カートの返却を検証する。
func TestUpdateCart(t *testing.T) {
	h, service := cartTestHandler(t, nil)

	var gotProduct string
	var gotDelta int
	service.applyFn = func(ctx context.Context, sessionID, productID string, delta int) error {
		gotProduct, gotDelta = productID, delta
		return nil
	}

	rec := httptest.NewRecorder()
	h.UpdateCart(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"product_id":"p-1","delta":-1}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotProduct != "p-1" || gotDelta != -1 {
		t.Errorf("ApplyDelta(%q, %d), want (p-1, -1)", gotProduct, gotDelta)
	}

	var body cartResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Items) != 2 {
		t.Errorf("items = %d, want 2", len(body.Items))
	}
}

// TestUpdateCart_MissingProductID は商品ID未指定の400を検証する。
func TestUpdateCart_MissingProductID(t *testing.T) {
	h, service := cartTestHandler(t, nil)
	service.applyFn = func(ctx context.Context, sessionID, productID string, delta int) error {
		t.Error("ApplyDelta should not be called")
		return nil
	}

	rec := httptest.NewRecorder()
	h.UpdateCart(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"delta":1}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestUpdateCart_UnknownProduct は存在しない商品への404を検証する。
func TestUpdateCart_UnknownProduct(t *testing.T) {
	h, service := cartTestHandler(t, nil)
	service.applyFn = func(ctx context.Context, sessionID, productID string, delta int) error {
		return model.NewProductNotFoundError(productID)
	}

	rec := httptest.NewRecorder()
	h.UpdateCart(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"product_id":"ghost","delta":1}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestClearCart はカートの破棄を検証する。
func TestClearCart(t *testing.T) {
	h, service := cartTestHandler(t, nil)

	cleared := ""
	service.clearFn = func(ctx context.Context, sessionID string) error {
		cleared = sessionID
		return nil
	}

	rec := httptest.NewRecorder()
	h.ClearCart(rec, authedRequest(http.MethodDelete, "/api/cart", ""))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if cleared != "sess-1" {
		t.Errorf("cleared session = %q, want sess-1", cleared)
	}
}

// TestExportCart はCSVダウンロードのヘッダーとメトリクス記録を検証する。
func TestExportCart(t *testing.T) {
	recorder := &stubCSVRecorder{}
	h, _ := cartTestHandler(t, recorder)

	rec := httptest.NewRecorder()
	h.ExportCart(rec, authedRequest(http.MethodGet, "/api/cart/export", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "pedido_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "\uFEFF") {
		t.Error("CSV should start with UTF-8 BOM")
	}
	if !strings.Contains(rec.Body.String(), `"Teclado"`) {
		t.Error("CSV should contain cart items")
	}
	if len(recorder.rows) != 1 || recorder.rows[0] != 2 {
		t.Errorf("recorded rows = %v, want [2]", recorder.rows)
	}
}
