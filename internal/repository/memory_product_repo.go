package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemoryProductRepository はProductRepositoryのインメモリ実装。
// 新規商品はカタログの先頭に追加される（管理画面の表示順を踏襲）。
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []*model.Product
}

// NewMemoryProductRepository はMemoryProductRepositoryを生成する。
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{}
}

// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *MemoryProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// List は全商品を新しい順で返す。
func (r *MemoryProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Product, 0, len(r.products))
	for _, p := range r.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

// Create は商品をカタログの先頭に追加する。
func (r *MemoryProductRepository) Create(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *product
	r.products = append([]*model.Product{&copied}, r.products...)
	return nil
}

// Delete は指定IDの商品を削除する。存在しない場合はエラーを返す。
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product not found: %s", id)
}
