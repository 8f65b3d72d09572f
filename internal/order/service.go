// Package order は注文ライフサイクルのドメインロジックを提供する。
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/pricing"
	"github.com/hitoshi/easyorder/internal/repository"
)

// EmailGenerator は注文確定メール本文の生成インターフェース。
// 実装は境界を越えてエラーを返してはならない。失敗時も表示可能な
// フォールバック文字列を返すこと。注文の成立はメール生成に依存しない。
type EmailGenerator interface {
	GenerateOrderEmail(ctx context.Context, items []model.CartLine, username string, total, shipping decimal.Decimal) string
}

// ConfirmRecorder は注文確定メトリクスの記録インターフェース。
type ConfirmRecorder interface {
	RecordOrderConfirmed()
}

// Service は注文ライフサイクルのサービス層。
// 注文の作成はConfirm経由のみで、作成後はステータス以外イミュータブル。
type Service struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	routeRepo repository.RouteRepository
	email     EmailGenerator
	recorder  ConfirmRecorder
}

// NewService はServiceを生成する。
// emailとrecorderはnil可（テストおよびメトリクス無効時）。
func NewService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	routeRepo repository.RouteRepository,
	email EmailGenerator,
	recorder ConfirmRecorder,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		routeRepo: routeRepo,
		email:     email,
		recorder:  recorder,
	}
}

// ConfirmResult は注文確定の結果。
type ConfirmResult struct {
	Order     *model.Order
	EmailBody string
}

// Confirm はカートを注文として確定する。
//
// カート明細をスナップショットし、現在時刻・新規ID・ユーザー情報・
// ルート名のスナップショットを付与してPENDINGで台帳の先頭に追加する。
// 確定後にカートは破棄される。空カートはゼロ合計の注文になる（許容）。
//
// メール生成は外部コラボレーターであり、その失敗は注文の成立を妨げない。
func (s *Service) Confirm(ctx context.Context, sessionID string, user *model.User) (*ConfirmResult, error) {
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	lines, err := s.cartRepo.Lines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	routes, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping routes: %w", err)
	}

	totals := pricing.ComputeTotals(lines, user, routes)

	// メール生成は注文成立の前提ではない。生成器は失敗時も
	// フォールバック文字列を返す契約になっている。
	emailBody := ""
	if s.email != nil {
		emailBody = s.email.GenerateOrderEmail(ctx, lines, user.Username, totals.Total, totals.Shipping)
	}

	items := make([]model.CartLine, len(lines))
	copy(items, lines)

	newOrder := &model.Order{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		UserName:          user.Username,
		UserEmail:         user.Email,
		Date:              time.Now(),
		Items:             items,
		Subtotal:          totals.Subtotal,
		Shipping:          totals.Shipping,
		Total:             totals.Total,
		Status:            model.StatusPending,
		ShippingRouteName: totals.RouteName,
	}

	if err := s.orderRepo.Create(ctx, newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		// カート破棄の失敗は注文を巻き戻さない。次回操作で上書きされる。
		slog.Warn("failed to clear cart after order confirmation",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if s.recorder != nil {
		s.recorder.RecordOrderConfirmed()
	}

	slog.Info("order confirmed",
		slog.String("order_id", newOrder.ID),
		slog.String("user_id", user.ID),
		slog.String("total", newOrder.Total.StringFixed(2)),
		slog.Int("items", len(newOrder.Items)),
	)

	return &ConfirmResult{Order: newOrder, EmailBody: emailBody}, nil
}

// SetStatus は注文ステータスを変更する。管理者操作。
// 遷移表は全結合で、どの状態からどの状態への変更も受け付ける
// （CANCELLED→PENDINGのような巻き戻しも含む）。
func (s *Service) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.IsValid() {
		return model.NewInvalidStatusError(string(status))
	}

	existing, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to find order: %w", err)
	}
	if existing == nil {
		return model.NewOrderNotFoundError(orderID)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	slog.Info("order status updated",
		slog.String("order_id", orderID),
		slog.String("from", string(existing.Status)),
		slog.String("to", string(status)),
	)
	return nil
}

// Get は指定IDの注文を返す。見つからない場合はAPIErrorを返す。
func (s *Service) Get(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

// ListAll は全注文を新しい順で返す。管理者向け。
func (s *Service) ListAll(ctx context.Context) ([]*model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListByUser は指定ユーザーの注文を新しい順で返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Stats は管理コックピットのKPIサマリーを計算する。
// 売上はCANCELLEDを除外し、平均単価は全注文数で割る（元システムの定義）。
func (s *Service) Stats(ctx context.Context) (*model.OrderStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	stats := &model.OrderStats{
		TotalRevenue: decimal.Zero,
		AvgTicket:    decimal.Zero,
	}
	for _, o := range orders {
		stats.TotalOrders++
		if o.Status != model.StatusCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		}
		if o.Status == model.StatusPending {
			stats.PendingOrders++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AvgTicket = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalOrders)))
	}
	return stats, nil
}
