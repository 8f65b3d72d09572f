// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus は注文の状態を表す。
// 遷移表は全結合であり、管理者はどの状態からどの状態へも変更できる
// （CANCELLEDからPENDINGへ戻す操作も許容する。意図的な管理者オーバーライド）。
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid はOrderStatusが定義済みの値かどうかを返す。
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Label はステータスの表示ラベル（ポルトガル語）を返す。
// CSVエクスポートと管理画面表示で使用する。
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusProcessing:
		return "Processando"
	case StatusShipped:
		return "Enviado"
	case StatusDelivered:
		return "Entregue"
	case StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// Order は確定済みの注文を表す。
// Status以外のフィールドは作成後イミュータブル。
// UserName/UserEmail/ShippingRouteNameは作成時点のスナップショットであり、
// 後からユーザーやルートが編集・削除されても過去の注文は変化しない。
type Order struct {
	ID                string
	UserID            string
	UserName          string
	UserEmail         string
	Date              time.Time
	Items             []CartLine
	Subtotal          decimal.Decimal
	Shipping          decimal.Decimal
	Total             decimal.Decimal
	Status            OrderStatus
	ShippingRouteName string
}

// ShippingRoute は配送ルート（地域）を表す。
// Percentageは小計に対する配送料率（非負の割合、単位は%）。
type ShippingRoute struct {
	ID         string
	Name       string
	Percentage decimal.Decimal
}

// UndefinedRouteName はユーザーの地域が未設定または
// ルート表に一致しない場合のセンチネル表示名。
const UndefinedRouteName = "Não Definida"

// OrderTotals はカートとユーザー地域から導出される金額サマリー。
// 保存されず、入力が変わるたびに再計算される派生状態。
type OrderTotals struct {
	Subtotal           decimal.Decimal
	ShippingPercentage decimal.Decimal
	RouteName          string
	Shipping           decimal.Decimal
	Total              decimal.Decimal
	ItemsCount         int
}

// OrderStats は管理コックピットのKPIサマリー。
type OrderStats struct {
	TotalRevenue  decimal.Decimal // CANCELLEDを除く合計売上
	TotalOrders   int
	PendingOrders int
	AvgTicket     decimal.Decimal // 全注文数に対する平均（注文0件なら0）
}
