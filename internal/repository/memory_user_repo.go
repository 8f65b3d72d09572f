package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemoryUserRepository はUserRepositoryのインメモリ実装。
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*model.User // 登録順
}

// NewMemoryUserRepository はMemoryUserRepositoryを生成する。
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// FindByIdentifier はユーザー名またはメールアドレスでユーザーを検索する。
// 大文字小文字は区別しない。見つからない場合はnilを返す。
func (r *MemoryUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(identifier)
	for _, u := range r.users {
		if strings.ToLower(u.Username) == lowered || strings.ToLower(u.Email) == lowered {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// List は全ユーザーを登録順で返す。
func (r *MemoryUserRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

// Create はユーザーを作成する。
func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users = append(r.users, &copied)
	return nil
}

// Update は既存ユーザーを上書きする。存在しない場合はエラーを返す。
func (r *MemoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			copied := *user
			r.users[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", user.ID)
}

// Delete は指定IDのユーザーを削除する。存在しない場合はエラーを返す。
func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", id)
}
