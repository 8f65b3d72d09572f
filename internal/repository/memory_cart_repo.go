package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemoryCartRepository はCartRepositoryのインメモリ実装。
// カートはセッションIDをキーに保持され、明細は追加順を維持する。
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string][]model.CartLine
}

// NewMemoryCartRepository はMemoryCartRepositoryを生成する。
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string][]model.CartLine),
	}
}

// Lines は指定セッションのカート明細を返す。カートが空の場合は空スライスを返す。
func (r *MemoryCartRepository) Lines(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := r.carts[sessionID]
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

// SaveLines は指定セッションのカート明細を置き換える。
func (r *MemoryCartRepository) SaveLines(ctx context.Context, sessionID string, lines []model.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]model.CartLine, len(lines))
	copy(copied, lines)
	r.carts[sessionID] = copied
	return nil
}

// Clear は指定セッションのカートを破棄する。
func (r *MemoryCartRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

// RemoveProduct は全セッションのカートから指定商品の明細を取り除く。
func (r *MemoryCartRepository) RemoveProduct(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sessionID, lines := range r.carts {
		filtered := lines[:0]
		for _, line := range lines {
			if line.Product.ID != productID {
				filtered = append(filtered, line)
			}
		}
		r.carts[sessionID] = filtered
	}
	return nil
}
