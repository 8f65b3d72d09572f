// Package export は注文台帳とカートのCSVエクスポートを提供する。
//
// 出力形式は表計算ソフト（Excel）での直接オープンを前提とする:
// UTF-8 BOM付き、全フィールドをダブルクォートで囲み、
// フィールド内のダブルクォートは二重化してエスケープする。
package export

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

// utf8BOM を先頭に付けるとExcelがUTF-8として認識する。
const utf8BOM = "\uFEFF"

var ordersHeader = []string{
	"ID do Pedido",
	"Data",
	"Hora",
	"Status",
	"ID Cliente",
	"Nome Cliente",
	"Email Cliente",
	"CNPJ",
	"Endereço",
	"Cidade",
	"UF",
	"CEP",
	"ID Produto",
	"Nome Produto",
	"Categoria",
	"Unidade",
	"Quantidade",
	"Preço Unitário",
	"Total do Item",
	"Subtotal Pedido",
	"Frete Pedido",
	"Rota de Frete",
	"Total Pedido",
}

var cartHeader = []string{
	"ID",
	"Produto",
	"Categoria",
	"Quantidade",
	"Preço Unitário",
	"Subtotal",
}

// OrdersCSV は注文台帳を明細単位のフラットなCSVに変換する。
//
// 1行は1つの注文明細に対応し、注文レベルの列（合計・顧客情報）は
// 各明細行に繰り返される。明細ゼロ件の注文は行を生成しない。
// 顧客情報は現在のユーザーディレクトリを優先し、既に削除された
// ユーザーの注文は注文側のスナップショット（名前・メール）に
// フォールバックする。
func OrdersCSV(orders []*model.Order, users []*model.User) string {
	directory := make(map[string]*model.User, len(users))
	for _, u := range users {
		directory[u.ID] = u
	}

	var b strings.Builder
	b.WriteString(utf8BOM)
	writeRow(&b, ordersHeader)

	for _, o := range orders {
		name := o.UserName
		email := o.UserEmail
		cnpj, address, city, state, cep := "", "", "", "", ""
		if u, ok := directory[o.UserID]; ok {
			name = u.Username
			email = u.Email
			cnpj = u.CNPJ
			address = u.Address
			city = u.City
			state = u.State
			cep = u.CEP
		}

		for _, item := range o.Items {
			quantity := decimal.NewFromInt(int64(item.Quantity))
			writeRow(&b, []string{
				o.ID,
				o.Date.Format("02/01/2006"),
				o.Date.Format("15:04:05"),
				o.Status.Label(),
				o.UserID,
				name,
				email,
				cnpj,
				address,
				city,
				state,
				cep,
				item.ID,
				item.Name,
				item.Category,
				item.Unit,
				quantity.String(),
				item.Price.StringFixed(2),
				item.Price.Mul(quantity).StringFixed(2),
				o.Subtotal.StringFixed(2),
				o.Shipping.StringFixed(2),
				o.ShippingRouteName,
				o.Total.StringFixed(2),
			})
		}
	}
	return b.String()
}

// CartCSV はカート明細をCSVに変換する。
func CartCSV(lines []model.CartLine) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	writeRow(&b, cartHeader)

	for _, line := range lines {
		quantity := decimal.NewFromInt(int64(line.Quantity))
		writeRow(&b, []string{
			line.ID,
			line.Name,
			line.Category,
			quantity.String(),
			line.Price.StringFixed(2),
			line.Price.Mul(quantity).StringFixed(2),
		})
	}
	return b.String()
}

// writeRow は全フィールドをクォートした1行を書き出す。
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
