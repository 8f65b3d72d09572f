// Package cart はセッションに帰属するカートの集約ロジックを提供する。
package cart

import (
	"context"
	"fmt"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/repository"
)

// Service はカート操作のサービス層。
// 全操作は入力に対する全域関数であり、不正な入力は例外ではなく
// 何もしない（no-op）に縮退する。カタログが常に正である。
type Service struct {
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

// NewService はServiceを生成する。
func NewService(productRepo repository.ProductRepository, cartRepo repository.CartRepository) *Service {
	return &Service{
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// ApplyDelta は指定商品の数量に符号付きデルタを適用する。
//   - 商品がカタログに存在しない場合は何もしない。
//   - 明細が存在せずdelta > 0の場合、数量1で新規明細を追加する
//     （初回追加はデルタの大きさに関わらず常に1。プラスボタンの意味論）。
//   - 明細が存在する場合、新数量 = 現数量 + delta。0以下なら明細を削除、
//     それ以外は数量を更新する。
func (s *Service) ApplyDelta(ctx context.Context, sessionID, productID string, delta int) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		// カタログに無い商品へのデルタは黙って捨てる
		return nil
	}

	lines, err := s.cartRepo.Lines(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	idx := -1
	for i, line := range lines {
		if line.Product.ID == productID {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0:
		newQuantity := lines[idx].Quantity + delta
		if newQuantity <= 0 {
			lines = append(lines[:idx], lines[idx+1:]...)
		} else {
			lines[idx].Quantity = newQuantity
		}
	case delta > 0:
		lines = append(lines, model.CartLine{Product: *product, Quantity: 1})
	default:
		// 明細が無くデルタが正でない場合は何もしない
		return nil
	}

	if err := s.cartRepo.SaveLines(ctx, sessionID, lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// QuantityOf は指定商品の現在数量を返す。明細が無い場合は0。
func (s *Service) QuantityOf(ctx context.Context, sessionID, productID string) (int, error) {
	lines, err := s.cartRepo.Lines(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	for _, line := range lines {
		if line.Product.ID == productID {
			return line.Quantity, nil
		}
	}
	return 0, nil
}

// Lines は指定セッションのカート明細を追加順で返す。
func (s *Service) Lines(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	lines, err := s.cartRepo.Lines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Clear は指定セッションのカートを破棄する。
// ログアウト時と注文確定時に呼び出される。
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
