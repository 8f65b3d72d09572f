package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemoryRouteRepository はRouteRepositoryのインメモリ実装。
type MemoryRouteRepository struct {
	mu     sync.RWMutex
	routes []*model.ShippingRoute // 登録順
}

// NewMemoryRouteRepository はMemoryRouteRepositoryを生成する。
func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{}
}

// FindByID は指定IDのルートを取得する。見つからない場合はnilを返す。
func (r *MemoryRouteRepository) FindByID(ctx context.Context, id string) (*model.ShippingRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if rt.ID == id {
			copied := *rt
			return &copied, nil
		}
	}
	return nil, nil
}

// List は全ルートを登録順で返す。
func (r *MemoryRouteRepository) List(ctx context.Context) ([]*model.ShippingRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.ShippingRoute, 0, len(r.routes))
	for _, rt := range r.routes {
		copied := *rt
		out = append(out, &copied)
	}
	return out, nil
}

// Create はルートを作成する。
func (r *MemoryRouteRepository) Create(ctx context.Context, route *model.ShippingRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *route
	r.routes = append(r.routes, &copied)
	return nil
}

// Update は既存ルートを上書きする。存在しない場合はエラーを返す。
func (r *MemoryRouteRepository) Update(ctx context.Context, route *model.ShippingRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rt := range r.routes {
		if rt.ID == route.ID {
			copied := *route
			r.routes[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("shipping route not found: %s", route.ID)
}

// Delete は指定IDのルートを削除する。存在しない場合はエラーを返す。
func (r *MemoryRouteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rt := range r.routes {
		if rt.ID == id {
			r.routes = append(r.routes[:i], r.routes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shipping route not found: %s", id)
}
