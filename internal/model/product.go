// Package model はドメインモデルを定義する。
package model

import "github.com/shopspring/decimal"

// Product はカタログ上の商品を表す。
// 注文に取り込まれた後はスナップショットとして保持されるため、
// カタログ側の変更が過去の注文に波及することはない。
type Product struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal // 単価（非負）
	Unit      string          // 単位ラベル（un, cx 等）
	ImageURL  string
	ImageData []byte // プリフェッチ済み画像（取得失敗時はnil）
	ImageMime string
}
