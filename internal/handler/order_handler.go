package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/easyorder/internal/export"
	"github.com/hitoshi/easyorder/internal/middleware"
	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/order"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	Confirm(ctx context.Context, sessionID string, user *model.User) (*order.ConfirmResult, error)
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	Get(ctx context.Context, orderID string) (*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	Stats(ctx context.Context) (*model.OrderStats, error)
}

// UserListerInterface はユーザー一覧の取得インターフェース。
// 注文CSVのユーザー企業情報の解決に使う。
type UserListerInterface interface {
	List(ctx context.Context) ([]*model.User, error)
}

// OrderHandler は注文関連のHTTPハンドラー。
type OrderHandler struct {
	service  OrderServiceInterface
	users    UserProviderInterface
	userList UserListerInterface
	recorder CSVRecorder
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface, users UserProviderInterface, userList UserListerInterface, recorder CSVRecorder) *OrderHandler {
	return &OrderHandler{
		service:  service,
		users:    users,
		userList: userList,
		recorder: recorder,
	}
}

type confirmOrderResponse struct {
	Order     orderResponse `json:"order"`
	EmailBody string        `json:"email_body"`
}

// ConfirmOrder はカートを注文として確定する。
// 確定と同時にAIで確認メール本文を生成して返す。メール生成の失敗は
// 注文の成立を妨げず、代替文面が返る。
// POST /api/orders
func (h *OrderHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.Confirm(r.Context(), sessionID, user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(confirmOrderResponse{
		Order:     toOrderResponse(result.Order),
		EmailBody: result.EmailBody,
	})
}

// ListMyOrders は自分の注文履歴を返す。新しい注文が先頭。
// GET /api/orders
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeOrderList(w, orders)
}

// ListAllOrders は全注文を返す（管理者専用）。
// GET /api/admin/orders
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeOrderList(w, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus は注文ステータスを変更する（管理者専用）。
// 遷移制約はなく、任意の定義済みステータスへ変更できる。
// PATCH /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.SetStatus(r.Context(), orderID, model.OrderStatus(req.Status)); err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(updated))
}

// GetStats は管理コックピットのKPIサマリーを返す（管理者専用）。
// GET /api/admin/orders/stats
func (h *OrderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toStatsResponse(stats))
}

// ExportOrders は全注文の明細CSVをダウンロードさせる（管理者専用）。
// GET /api/admin/orders/export
func (h *OrderHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("relatorio_pedidos_%d.csv", time.Now().UnixMilli())
	h.writeOrdersCSV(w, r, orders, filename)
}

// ExportOrder は単一注文の明細CSVをダウンロードさせる（管理者専用）。
// GET /api/admin/orders/{id}/export
func (h *OrderHandler) ExportOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	o, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.writeOrdersCSV(w, r, []*model.Order{o}, fmt.Sprintf("pedido_%s.csv", o.ID))
}

// writeOrdersCSV は注文リストをCSVレスポンスとして書き込む。
func (h *OrderHandler) writeOrdersCSV(w http.ResponseWriter, r *http.Request, orders []*model.Order, filename string) {
	users, err := h.userList.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	csv := export.OrdersCSV(orders, users)

	rows := 0
	for _, o := range orders {
		rows += len(o.Items)
	}
	if h.recorder != nil {
		h.recorder.RecordCSVExport(rows)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(csv))
}

func writeOrderList(w http.ResponseWriter, orders []*model.Order) {
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
