package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/easyorder/internal/model"
)

// MemorySessionRepository はSessionRepositoryのインメモリ実装。
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewMemorySessionRepository はMemorySessionRepositoryを生成する。
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*model.Session),
	}
}

// Create はセッションを作成する。
func (r *MemorySessionRepository) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

// FindByID は指定IDのセッションを取得する。
// 期限切れの場合はエントリを破棄してnilを返す。
func (r *MemorySessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		delete(r.sessions, id)
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *MemorySessionRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// DeleteByUserID は指定ユーザーの全セッションを削除する。
func (r *MemorySessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

// DeleteExpired は期限切れの全セッションを削除し、そのIDを返す。
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var expired []string
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired, nil
}
