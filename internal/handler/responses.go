package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

// userResponse はユーザー情報のJSONレスポンス。パスワードは含めない。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	RegionID string `json:"region_id,omitempty"`
	CNPJ     string `json:"cnpj,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	CEP      string `json:"cep,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		RegionID: u.RegionID,
		CNPJ:     u.CNPJ,
		Address:  u.Address,
		City:     u.City,
		State:    u.State,
		CEP:      u.CEP,
	}
}

// productResponse は商品のJSONレスポンス。金額は文字列（小数2桁固定）で返す。
type productResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Unit     string `json:"unit"`
	ImageURL string `json:"image_url"`
	HasImage bool   `json:"has_image"`
}

func toProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
		Unit:     p.Unit,
		ImageURL: p.ImageURL,
		HasImage: len(p.ImageData) > 0,
	}
}

// cartLineResponse はカート明細のJSONレスポンス。
type cartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	ImageURL  string `json:"image_url"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

func toCartLineResponse(line model.CartLine) cartLineResponse {
	return cartLineResponse{
		ProductID: line.ID,
		Name:      line.Name,
		Category:  line.Category,
		Unit:      line.Unit,
		ImageURL:  line.ImageURL,
		Price:     line.Price.StringFixed(2),
		Quantity:  line.Quantity,
		LineTotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).StringFixed(2),
	}
}

// totalsResponse はカートの金額サマリーのJSONレスポンス。
type totalsResponse struct {
	Subtotal           string `json:"subtotal"`
	ShippingPercentage string `json:"shipping_percentage"`
	RouteName          string `json:"route_name"`
	Shipping           string `json:"shipping"`
	Total              string `json:"total"`
	ItemsCount         int    `json:"items_count"`
}

func toTotalsResponse(t model.OrderTotals) totalsResponse {
	return totalsResponse{
		Subtotal:           t.Subtotal.StringFixed(2),
		ShippingPercentage: t.ShippingPercentage.String(),
		RouteName:          t.RouteName,
		Shipping:           t.Shipping.StringFixed(2),
		Total:              t.Total.StringFixed(2),
		ItemsCount:         t.ItemsCount,
	}
}

// routeResponse は配送ルートのJSONレスポンス。
type routeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
}

func toRouteResponse(route *model.ShippingRoute) routeResponse {
	return routeResponse{
		ID:         route.ID,
		Name:       route.Name,
		Percentage: route.Percentage.String(),
	}
}

// orderResponse は注文のJSONレスポンス。
type orderResponse struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	UserName          string             `json:"user_name"`
	UserEmail         string             `json:"user_email"`
	Date              time.Time          `json:"date"`
	Items             []cartLineResponse `json:"items"`
	Subtotal          string             `json:"subtotal"`
	Shipping          string             `json:"shipping"`
	Total             string             `json:"total"`
	Status            string             `json:"status"`
	StatusLabel       string             `json:"status_label"`
	ShippingRouteName string             `json:"shipping_route_name"`
}

func toOrderResponse(o *model.Order) orderResponse {
	items := make([]cartLineResponse, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, toCartLineResponse(line))
	}
	return orderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		UserName:          o.UserName,
		UserEmail:         o.UserEmail,
		Date:              o.Date,
		Items:             items,
		Subtotal:          o.Subtotal.StringFixed(2),
		Shipping:          o.Shipping.StringFixed(2),
		Total:             o.Total.StringFixed(2),
		Status:            string(o.Status),
		StatusLabel:       o.Status.Label(),
		ShippingRouteName: o.ShippingRouteName,
	}
}

// statsResponse は管理コックピットのKPIサマリーのJSONレスポンス。
type statsResponse struct {
	TotalRevenue  string `json:"total_revenue"`
	TotalOrders   int    `json:"total_orders"`
	PendingOrders int    `json:"pending_orders"`
	AvgTicket     string `json:"avg_ticket"`
}

func toStatsResponse(s *model.OrderStats) statsResponse {
	return statsResponse{
		TotalRevenue:  s.TotalRevenue.StringFixed(2),
		TotalOrders:   s.TotalOrders,
		PendingOrders: s.PendingOrders,
		AvgTicket:     s.AvgTicket.StringFixed(2),
	}
}
