// Package repository はアプリケーション状態ストアのインターフェースを定義する。
//
// 永続化境界は非永続（プロセス内メモリのみ）であることが仕様で確定しているため、
// 実装はsync.RWMutexで保護したインメモリストアのみを提供する。
// グローバル可変状態を避け、全ストアを明示的な依存として各サービスに注入する。
package repository

import (
	"context"

	"github.com/hitoshi/easyorder/internal/model"
)

// UserRepository はユーザーディレクトリの操作インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByIdentifier はユーザー名またはメールアドレス（大文字小文字を無視）で
	// ユーザーを検索する。見つからない場合はnilを返す。
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)

	// List は全ユーザーを登録順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// Update は既存ユーザーを上書きする。存在しない場合はエラーを返す。
	Update(ctx context.Context, user *model.User) error

	// Delete は指定IDのユーザーを削除する。存在しない場合はエラーを返す。
	Delete(ctx context.Context, id string) error
}

// ProductRepository はカタログの操作インターフェース。
type ProductRepository interface {
	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List は全商品を新しい順で返す。
	List(ctx context.Context) ([]*model.Product, error)

	// Create は商品をカタログの先頭に追加する。
	Create(ctx context.Context, product *model.Product) error

	// Delete は指定IDの商品を削除する。存在しない場合はエラーを返す。
	Delete(ctx context.Context, id string) error
}

// RouteRepository は配送ルート表の操作インターフェース。
type RouteRepository interface {
	// FindByID は指定IDのルートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ShippingRoute, error)

	// List は全ルートを登録順で返す。
	List(ctx context.Context) ([]*model.ShippingRoute, error)

	// Create はルートを作成する。
	Create(ctx context.Context, route *model.ShippingRoute) error

	// Update は既存ルートを上書きする。存在しない場合はエラーを返す。
	// 過去の注文はルート名のスナップショットを保持しているため影響を受けない。
	Update(ctx context.Context, route *model.ShippingRoute) error

	// Delete は指定IDのルートを削除する。存在しない場合はエラーを返す。
	Delete(ctx context.Context, id string) error
}

// OrderRepository は注文台帳の操作インターフェース。
// 注文はStatus以外イミュータブルで、削除されることはない。
type OrderRepository interface {
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// List は全注文を新しい順で返す。
	List(ctx context.Context) ([]*model.Order, error)

	// ListByUserID は指定ユーザーの注文を新しい順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Order, error)

	// Create は注文を台帳の先頭に追加する。
	Create(ctx context.Context, order *model.Order) error

	// UpdateStatus は注文のステータスのみを更新する。存在しない場合はエラーを返す。
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

// SessionRepository はセッションデータの操作インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired は期限切れの全セッションを削除し、そのIDを返す。
	DeleteExpired(ctx context.Context) ([]string, error)
}

// CartRepository はセッションごとのカート明細の操作インターフェース。
type CartRepository interface {
	// Lines は指定セッションのカート明細を返す。カートが空の場合は空スライスを返す。
	Lines(ctx context.Context, sessionID string) ([]model.CartLine, error)

	// SaveLines は指定セッションのカート明細を置き換える。
	SaveLines(ctx context.Context, sessionID string, lines []model.CartLine) error

	// Clear は指定セッションのカートを破棄する。
	Clear(ctx context.Context, sessionID string) error

	// RemoveProduct は全セッションのカートから指定商品の明細を取り除く。
	// カタログから商品が削除された際に呼び出される。
	RemoveProduct(ctx context.Context, productID string) error
}
