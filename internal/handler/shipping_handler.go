package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/shipping"
)

// ShippingServiceInterface は配送ルートハンドラーが必要とするサービスインターフェース。
type ShippingServiceInterface interface {
	List(ctx context.Context) ([]*model.ShippingRoute, error)
	Create(ctx context.Context, input shipping.RouteInput) (*model.ShippingRoute, error)
	Update(ctx context.Context, routeID string, input shipping.RouteInput) (*model.ShippingRoute, error)
	Delete(ctx context.Context, routeID string) error
}

// ShippingHandler は配送ルート関連のHTTPハンドラー。
// 一覧は登録フォームの地域選択にも使うため認証不要、変更系は管理者専用。
type ShippingHandler struct {
	service ShippingServiceInterface
}

// NewShippingHandler はShippingHandlerを生成する。
func NewShippingHandler(service ShippingServiceInterface) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// ListRoutes は配送ルート一覧を返す。
// GET /api/shipping-routes
func (h *ShippingHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]routeResponse, 0, len(routes))
	for _, route := range routes {
		resp = append(resp, toRouteResponse(route))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type routeRequest struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
}

// CreateRoute は配送ルートを作成する（管理者専用）。
// 料率はカンマ小数表記も受け付ける（例: "7,5"）。
// POST /api/admin/shipping-routes
func (h *ShippingHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	route, err := h.service.Create(r.Context(), shipping.RouteInput{
		Name:       req.Name,
		Percentage: req.Percentage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toRouteResponse(route))
}

// UpdateRoute は配送ルートを更新する（管理者専用）。
// 過去の注文はルート名のスナップショットを持つため影響を受けない。
// PUT /api/admin/shipping-routes/{id}
func (h *ShippingHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	route, err := h.service.Update(r.Context(), routeID, shipping.RouteInput{
		Name:       req.Name,
		Percentage: req.Percentage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toRouteResponse(route))
}

// DeleteRoute は配送ルートを削除する（管理者専用）。
// DELETE /api/admin/shipping-routes/{id}
func (h *ShippingHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), routeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
