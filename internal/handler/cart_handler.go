package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hitoshi/easyorder/internal/export"
	"github.com/hitoshi/easyorder/internal/middleware"
	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/pricing"
)

// CartServiceInterface はカートハンドラーが必要とするサービスインターフェース。
type CartServiceInterface interface {
	Lines(ctx context.Context, sessionID string) ([]model.CartLine, error)
	ApplyDelta(ctx context.Context, sessionID, productID string, delta int) error
	Clear(ctx context.Context, sessionID string) error
}

// RouteListerInterface は配送ルート一覧の取得インターフェース。
// カートの金額計算とルート表示に使う。
type RouteListerInterface interface {
	List(ctx context.Context) ([]*model.ShippingRoute, error)
}

// UserProviderInterface はコンテキストのユーザーIDからユーザーを引くインターフェース。
type UserProviderInterface interface {
	FindByID(ctx context.Context, userID string) (*model.User, error)
}

// CSVRecorder はCSVエクスポートのメトリクスを記録する。
type CSVRecorder interface {
	RecordCSVExport(rows int)
}

// CartHandler はセッションカート関連のHTTPハンドラー。
type CartHandler struct {
	service  CartServiceInterface
	routes   RouteListerInterface
	users    UserProviderInterface
	recorder CSVRecorder
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(service CartServiceInterface, routes RouteListerInterface, users UserProviderInterface, recorder CSVRecorder) *CartHandler {
	return &CartHandler{
		service:  service,
		routes:   routes,
		users:    users,
		recorder: recorder,
	}
}

type cartResponse struct {
	Items  []cartLineResponse `json:"items"`
	Totals totalsResponse     `json:"totals"`
}

// GetCart は現在のカート明細と金額サマリーを返す。
// 配送料はユーザーの地域に紐づくルートの料率から毎回再計算される。
// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, user, err := h.cartState(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	routes, err := h.routes.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	totals := pricing.ComputeTotals(lines, user, routes)

	items := make([]cartLineResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, toCartLineResponse(line))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cartResponse{
		Items:  items,
		Totals: toTotalsResponse(totals),
	})
}

type updateCartRequest struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// UpdateCart はカート明細に数量差分を適用する。
// 未登録商品への正の差分は数量1の明細を新規作成し、数量が0以下に
// なった明細は削除される。適用後のカート全体を返す。
// POST /api/cart/items
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.ProductID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError())
		return
	}

	if err := h.service.ApplyDelta(r.Context(), sessionID, req.ProductID, req.Delta); err != nil {
		handleServiceError(w, err)
		return
	}

	h.GetCart(w, r)
}

// ClearCart はカートを空にする。
// DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportCart はカート明細をERP取込用のCSVとしてダウンロードさせる。
// GET /api/cart/export
func (h *CartHandler) ExportCart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	lines, err := h.service.Lines(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	csv := export.CartCSV(lines)
	if h.recorder != nil {
		h.recorder.RecordCSVExport(len(lines))
	}

	filename := fmt.Sprintf("pedido_%d.csv", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(csv))
}

// cartState はリクエストコンテキストからカート明細と現在のユーザーを取得する。
func (h *CartHandler) cartState(r *http.Request) ([]model.CartLine, *model.User, error) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		return nil, nil, model.NewUnauthorizedError()
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		return nil, nil, model.NewUnauthorizedError()
	}

	lines, err := h.service.Lines(r.Context(), sessionID)
	if err != nil {
		return nil, nil, err
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		return nil, nil, err
	}

	return lines, user, nil
}
