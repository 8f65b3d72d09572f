package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemoryOrderRepository はOrderRepositoryのインメモリ実装。
// 台帳は新しい注文が先頭に来る順序を維持する。
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []*model.Order
}

// NewMemoryOrderRepository はMemoryOrderRepositoryを生成する。
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *MemoryOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return nil, nil
}

// List は全注文を新しい順で返す。
func (r *MemoryOrderRepository) List(ctx context.Context) ([]*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

// ListByUserID は指定ユーザーの注文を新しい順で返す。
func (r *MemoryOrderRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

// Create は注文を台帳の先頭に追加する。
func (r *MemoryOrderRepository) Create(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append([]*model.Order{copyOrder(order)}, r.orders...)
	return nil
}

// UpdateStatus は注文のステータスのみを更新する。存在しない場合はエラーを返す。
func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return fmt.Errorf("order not found: %s", orderID)
}

// copyOrder は明細スライスを含めた注文の深いコピーを返す。
// 台帳の注文は呼び出し元から変更できない。
func copyOrder(o *model.Order) *model.Order {
	copied := *o
	copied.Items = make([]model.CartLine, len(o.Items))
	copy(copied.Items, o.Items)
	return &copied
}
