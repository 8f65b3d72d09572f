package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

// SeedDemoData は開発・検証用の初期データを各ストアに投入する。
// 商品カタログ、配送ルート表、管理者と顧客のサンプルユーザー、
// 過去2件の注文を登録する。空のストアに対して起動時に1回だけ呼ぶこと。
func SeedDemoData(ctx context.Context, products ProductRepository, routes RouteRepository, users UserRepository, orders OrderRepository) error {
	demoProducts := []*model.Product{
		{ID: "1", Name: "Notebook Dell Inspiron 15", Category: "Eletrônicos", Price: decimal.RequireFromString("3500.00"), Unit: "un", ImageURL: "https://picsum.photos/id/0/300/300"},
		{ID: "2", Name: "Mouse Sem Fio Logitech", Category: "Periféricos", Price: decimal.RequireFromString("120.50"), Unit: "un", ImageURL: "https://picsum.photos/id/3/300/300"},
		{ID: "3", Name: "Teclado Mecânico RGB", Category: "Periféricos", Price: decimal.RequireFromString("450.00"), Unit: "un", ImageURL: "https://picsum.photos/id/7/300/300"},
		{ID: "4", Name: "Monitor Ultrawide LG 29\"", Category: "Eletrônicos", Price: decimal.RequireFromString("1200.00"), Unit: "un", ImageURL: "https://picsum.photos/id/4/300/300"},
		{ID: "5", Name: "Cadeira Ergonômica Office", Category: "Móveis", Price: decimal.RequireFromString("850.00"), Unit: "un", ImageURL: "https://picsum.photos/id/180/300/300"},
		{ID: "6", Name: "Headset Noise Cancelling", Category: "Áudio", Price: decimal.RequireFromString("600.00"), Unit: "un", ImageURL: "https://picsum.photos/id/250/300/300"},
	}
	// Createは先頭挿入のため、カタログ表示順を保つには逆順で投入する。
	for i := len(demoProducts) - 1; i >= 0; i-- {
		if err := products.Create(ctx, demoProducts[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", demoProducts[i].ID, err)
		}
	}

	demoRoutes := []*model.ShippingRoute{
		{ID: "1", Name: "Região Sul (Padrão)", Percentage: decimal.RequireFromString("5.0")},
		{ID: "2", Name: "Região Sudeste", Percentage: decimal.RequireFromString("7.5")},
		{ID: "3", Name: "Região Norte/Nordeste", Percentage: decimal.RequireFromString("12.0")},
		{ID: "4", Name: "Centro-Oeste", Percentage: decimal.RequireFromString("9.0")},
	}
	for _, rt := range demoRoutes {
		if err := routes.Create(ctx, rt); err != nil {
			return fmt.Errorf("seed route %s: %w", rt.ID, err)
		}
	}

	demoUsers := []*model.User{
		{
			ID:       "1",
			Username: "admin",
			Email:    "admin@easyorder.com",
			Password: "admin",
			Role:     model.RoleAdmin,
			City:     "São Paulo",
			State:    "SP",
			RegionID: "2",
		},
		{
			ID:       "2",
			Username: "Cliente Exemplo Ltda",
			Email:    "compras@cliente.com",
			Password: "123",
			Role:     model.RoleUser,
			CNPJ:     "12.345.678/0001-99",
			Address:  "Av. Paulista, 1000",
			City:     "São Paulo",
			State:    "SP",
			RegionID: "2",
		},
	}
	for _, u := range demoUsers {
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	now := time.Now()
	demoOrders := []*model.Order{
		{
			ID:        "1002",
			UserID:    "2",
			UserName:  "Cliente Exemplo Ltda",
			UserEmail: "compras@cliente.com",
			Date:      now.Add(-48 * time.Hour),
			Items: []model.CartLine{
				{Product: *demoProducts[4], Quantity: 5},
			},
			Subtotal:          decimal.RequireFromString("4250.00"),
			Shipping:          decimal.RequireFromString("318.75"),
			Total:             decimal.RequireFromString("4568.75"),
			Status:            model.StatusDelivered,
			ShippingRouteName: "Região Sudeste",
		},
		{
			ID:        "1001",
			UserID:    "2",
			UserName:  "Cliente Exemplo Ltda",
			UserEmail: "compras@cliente.com",
			Date:      now.Add(-24 * time.Hour),
			Items: []model.CartLine{
				{Product: *demoProducts[0], Quantity: 1},
				{Product: *demoProducts[1], Quantity: 2},
			},
			Subtotal:          decimal.RequireFromString("3741.00"),
			Shipping:          decimal.RequireFromString("280.57"),
			Total:             decimal.RequireFromString("4021.57"),
			Status:            model.StatusPending,
			ShippingRouteName: "Região Sudeste",
		},
	}
	// 古い注文から投入し、台帳を新しい順に保つ。
	for _, o := range demoOrders {
		if err := orders.Create(ctx, o); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}

	return nil
}
