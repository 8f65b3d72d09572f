// Package model はドメインモデルを定義する。
package model

// CartLine はカート内の1明細を表す。
// 商品フィールドはカタログからのスナップショットで、数量は常に1以上。
// 数量が0以下になる操作では明細そのものが削除される。
type CartLine struct {
	Product
	Quantity int
}
