// Package shipping は配送ルート表の管理を提供する。
package shipping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/repository"
)

// Service は配送ルート表のビジネスロジックを提供する。
// 参照は全ユーザー、作成・更新・削除は管理者専用（認可はハンドラー側で行う）。
type Service struct {
	routeRepo repository.RouteRepository
}

// NewService はServiceを生成する。
func NewService(routeRepo repository.RouteRepository) *Service {
	return &Service{routeRepo: routeRepo}
}

// RouteInput はルート作成・更新の入力。Percentageは文字列のまま受け取る。
type RouteInput struct {
	Name       string
	Percentage string
}

// List は全ルートを登録順で返す。
// 登録フォームの地域選択とカート画面の料率解決の両方で使われる。
func (s *Service) List(ctx context.Context) ([]*model.ShippingRoute, error) {
	routes, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping routes: %w", err)
	}
	return routes, nil
}

// Create はルートを作成する。名前と料率は必須、料率は非負の数値。
func (s *Service) Create(ctx context.Context, input RouteInput) (*model.ShippingRoute, error) {
	percentage, err := validateRouteInput(input)
	if err != nil {
		return nil, err
	}

	route := &model.ShippingRoute{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Percentage: percentage,
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create shipping route: %w", err)
	}

	slog.Info("shipping route created",
		slog.String("route_id", route.ID),
		slog.String("name", route.Name),
		slog.String("percentage", route.Percentage.String()),
	)
	return route, nil
}

// Update は既存ルートを上書きする。
// 既存ユーザーのRegionID参照はそのまま生き、次の金額計算から新料率が効く。
// 過去の注文はルート名・金額のスナップショットを保持しているため変化しない。
func (s *Service) Update(ctx context.Context, routeID string, input RouteInput) (*model.ShippingRoute, error) {
	percentage, err := validateRouteInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find shipping route: %w", err)
	}
	if existing == nil {
		return nil, model.NewRouteNotFoundError(routeID)
	}

	route := &model.ShippingRoute{
		ID:         routeID,
		Name:       input.Name,
		Percentage: percentage,
	}
	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to update shipping route: %w", err)
	}

	slog.Info("shipping route updated", slog.String("route_id", routeID))
	return route, nil
}

// Delete はルートを削除する。
// 削除されたルートを参照していたユーザーは未定義地域の扱いになり、
// 以後の注文は配送料0・ルート名センチネルで計算される。
func (s *Service) Delete(ctx context.Context, routeID string) error {
	existing, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		return fmt.Errorf("failed to find shipping route: %w", err)
	}
	if existing == nil {
		return model.NewRouteNotFoundError(routeID)
	}

	if err := s.routeRepo.Delete(ctx, routeID); err != nil {
		return fmt.Errorf("failed to delete shipping route: %w", err)
	}

	slog.Info("shipping route deleted", slog.String("route_id", routeID))
	return nil
}

// validateRouteInput は必須項目と料率を検証する。
func validateRouteInput(input RouteInput) (decimal.Decimal, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Percentage) == "" {
		return decimal.Zero, model.NewMissingFieldsError()
	}

	normalized := strings.ReplaceAll(strings.TrimSpace(input.Percentage), ",", ".")
	percentage, err := decimal.NewFromString(normalized)
	if err != nil || percentage.IsNegative() {
		return decimal.Zero, model.NewInvalidPercentageError(input.Percentage)
	}
	return percentage, nil
}
