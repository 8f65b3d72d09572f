package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

func line(price string, quantity int) model.CartLine {
	return model.CartLine{
		Product:  model.Product{Price: decimal.RequireFromString(price)},
		Quantity: quantity,
	}
}

// TestComputeTotals_WithRoute は仕様例（小計250、料率10%）の計算を検証する。
func TestComputeTotals_WithRoute(t *testing.T) {
	lines := []model.CartLine{
		line("100", 2),
		line("50", 1),
	}
	user := &model.User{RegionID: "r-1"}
	routes := []*model.ShippingRoute{
		{ID: "r-1", Name: "Região Sudeste", Percentage: decimal.RequireFromString("10")},
	}

	totals := ComputeTotals(lines, user, routes)

	if !totals.Subtotal.Equal(decimal.RequireFromString("250")) {
		t.Errorf("Subtotal = %s, want 250", totals.Subtotal)
	}
	if !totals.Shipping.Equal(decimal.RequireFromString("25")) {
		t.Errorf("Shipping = %s, want 25", totals.Shipping)
	}
	if !totals.Total.Equal(decimal.RequireFromString("275")) {
		t.Errorf("Total = %s, want 275", totals.Total)
	}
	if totals.RouteName != "Região Sudeste" {
		t.Errorf("RouteName = %q, want %q", totals.RouteName, "Região Sudeste")
	}
	if totals.ItemsCount != 3 {
		t.Errorf("ItemsCount = %d, want 3", totals.ItemsCount)
	}
}

// TestComputeTotals_UnmatchedRegion は地域不一致で料率0・センチネル名に
// なることを検証する。
func TestComputeTotals_UnmatchedRegion(t *testing.T) {
	lines := []model.CartLine{line("100", 1)}
	user := &model.User{RegionID: "missing"}
	routes := []*model.ShippingRoute{
		{ID: "r-1", Name: "Região Sul", Percentage: decimal.RequireFromString("5")},
	}

	totals := ComputeTotals(lines, user, routes)

	if !totals.ShippingPercentage.IsZero() {
		t.Errorf("ShippingPercentage = %s, want 0", totals.ShippingPercentage)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Errorf("Total = %s, want Subtotal %s", totals.Total, totals.Subtotal)
	}
	if totals.RouteName != model.UndefinedRouteName {
		t.Errorf("RouteName = %q, want %q", totals.RouteName, model.UndefinedRouteName)
	}
}

// TestComputeTotals_NoRegion は地域未設定のユーザーとnilユーザーの
// 両方で料率0になることを検証する。
func TestComputeTotals_NoRegion(t *testing.T) {
	lines := []model.CartLine{line("80", 2)}
	routes := []*model.ShippingRoute{
		{ID: "r-1", Name: "Região Sul", Percentage: decimal.RequireFromString("5")},
	}

	for name, user := range map[string]*model.User{
		"empty region": {RegionID: ""},
		"nil user":     nil,
	} {
		totals := ComputeTotals(lines, user, routes)
		if !totals.Shipping.IsZero() {
			t.Errorf("%s: Shipping = %s, want 0", name, totals.Shipping)
		}
		if totals.RouteName != model.UndefinedRouteName {
			t.Errorf("%s: RouteName = %q, want %q", name, totals.RouteName, model.UndefinedRouteName)
		}
	}
}

// TestComputeTotals_EmptyCart は空カートで全てゼロになることを検証する。
func TestComputeTotals_EmptyCart(t *testing.T) {
	user := &model.User{RegionID: "r-1"}
	routes := []*model.ShippingRoute{
		{ID: "r-1", Name: "Região Sul", Percentage: decimal.RequireFromString("5")},
	}

	totals := ComputeTotals(nil, user, routes)

	if !totals.Subtotal.IsZero() || !totals.Shipping.IsZero() || !totals.Total.IsZero() {
		t.Errorf("totals = %+v, want all zero", totals)
	}
	if totals.ItemsCount != 0 {
		t.Errorf("ItemsCount = %d, want 0", totals.ItemsCount)
	}
}

// TestComputeTotals_Invariants は total == subtotal + shipping と
// shipping == subtotal * percentage / 100 が常に成り立つことを検証する。
func TestComputeTotals_Invariants(t *testing.T) {
	cases := []struct {
		name       string
		lines      []model.CartLine
		percentage string
	}{
		{"integer values", []model.CartLine{line("3500.00", 1), line("120.50", 2)}, "7.5"},
		{"fractional percentage", []model.CartLine{line("0.01", 3)}, "12.0"},
		{"zero percentage", []model.CartLine{line("999.99", 7)}, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &model.User{RegionID: "r-1"}
			routes := []*model.ShippingRoute{
				{ID: "r-1", Name: "Rota", Percentage: decimal.RequireFromString(tc.percentage)},
			}

			totals := ComputeTotals(tc.lines, user, routes)

			wantShipping := totals.Subtotal.Mul(totals.ShippingPercentage).Div(decimal.NewFromInt(100))
			if !totals.Shipping.Equal(wantShipping) {
				t.Errorf("Shipping = %s, want %s", totals.Shipping, wantShipping)
			}
			if !totals.Total.Equal(totals.Subtotal.Add(totals.Shipping)) {
				t.Errorf("Total = %s, want Subtotal+Shipping = %s", totals.Total, totals.Subtotal.Add(totals.Shipping))
			}
		})
	}
}

// TestComputeTotals_ExactDecimal は浮動小数点では誤差が出る組み合わせで
// 正確な値が得られることを検証する。
func TestComputeTotals_ExactDecimal(t *testing.T) {
	lines := []model.CartLine{line("0.10", 3)}
	user := &model.User{RegionID: "r-1"}
	routes := []*model.ShippingRoute{
		{ID: "r-1", Name: "Rota", Percentage: decimal.RequireFromString("10")},
	}

	totals := ComputeTotals(lines, user, routes)

	if totals.Subtotal.String() != "0.30" && totals.Subtotal.String() != "0.3" {
		t.Errorf("Subtotal = %s, want exactly 0.30", totals.Subtotal)
	}
	if !totals.Total.Equal(decimal.RequireFromString("0.33")) {
		t.Errorf("Total = %s, want 0.33", totals.Total)
	}
}
