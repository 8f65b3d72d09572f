// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleAdmin は管理者。商品・ユーザー・配送ルート・注文ステータスを管理できる。
	RoleAdmin Role = "admin"
	// RoleUser は一般の発注ユーザー。
	RoleUser Role = "user"
)

// IsValid はRoleが定義済みの値かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User は発注企業のユーザーを表す。
// Usernameは法人名（Razão Social）として扱われる。
// Passwordは平文の等価比較のみに使う不透明な文字列であり、
// セキュリティモデルではない（元システムのモック認証を踏襲）。
type User struct {
	ID       string
	Username string
	Email    string
	Password string
	Role     Role
	RegionID string // ShippingRouteへの参照。未設定可。

	// 企業情報（任意項目）
	CNPJ    string
	Address string
	City    string
	State   string
	CEP     string
}

// Session はユーザーのログインセッションを表す。
// カートはセッションに帰属し、ログアウトで破棄される。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
