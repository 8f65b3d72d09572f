// Package pricing は注文金額の導出計算を提供する。
//
// ここで計算される値は派生状態であり、保存されない。カート・ユーザー・
// ルート表のいずれかが変わるたびに入力から再計算される。
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals はカート明細・ユーザー・ルート表から金額サマリーを計算する。
//
//	subtotal = Σ(単価 × 数量)
//	shipping = subtotal × (料率 / 100)
//	total    = subtotal + shipping
//
// 料率はユーザーのRegionIDがルート表に一致した場合のみそのルートの値を使い、
// 未設定・不一致の場合は0かつルート名はセンチネル（Não Definida）になる。
// 金額は全てdecimalの正確な演算で、表示時まで丸めない。
func ComputeTotals(lines []model.CartLine, user *model.User, routes []*model.ShippingRoute) model.OrderTotals {
	subtotal := decimal.Zero
	itemsCount := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		itemsCount += line.Quantity
	}

	percentage := decimal.Zero
	routeName := model.UndefinedRouteName
	if user != nil && user.RegionID != "" {
		for _, route := range routes {
			if route.ID == user.RegionID {
				percentage = route.Percentage
				routeName = route.Name
				break
			}
		}
	}

	shipping := subtotal.Mul(percentage).Div(hundred)

	return model.OrderTotals{
		Subtotal:           subtotal,
		ShippingPercentage: percentage,
		RouteName:          routeName,
		Shipping:           shipping,
		Total:              subtotal.Add(shipping),
		ItemsCount:         itemsCount,
	}
}
