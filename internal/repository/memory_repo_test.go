package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
)

// --- UserRepository ---

// TestMemoryUserRepository_FindByIdentifier はユーザー名・メール両方での
// 大文字小文字を無視した検索を検証する。
func TestMemoryUserRepository_FindByIdentifier(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	if err := repo.Create(ctx, &model.User{ID: "u-1", Username: "Cliente Exemplo Ltda", Email: "compras@cliente.com"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	byName, err := repo.FindByIdentifier(ctx, "cliente exemplo ltda")
	if err != nil {
		t.Fatalf("FindByIdentifier returned error: %v", err)
	}
	if byName == nil || byName.ID != "u-1" {
		t.Errorf("FindByIdentifier by username = %+v, want user u-1", byName)
	}

	byEmail, err := repo.FindByIdentifier(ctx, "COMPRAS@CLIENTE.COM")
	if err != nil {
		t.Fatalf("FindByIdentifier returned error: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u-1" {
		t.Errorf("FindByIdentifier by email = %+v, want user u-1", byEmail)
	}

	missing, err := repo.FindByIdentifier(ctx, "desconhecido")
	if err != nil {
		t.Fatalf("FindByIdentifier returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("FindByIdentifier for unknown identifier = %+v, want nil", missing)
	}
}

// TestMemoryUserRepository_ReturnsCopies は取得したユーザーを変更しても
// ストア内の状態が汚染されないことを検証する。
func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	if err := repo.Create(ctx, &model.User{ID: "u-1", Username: "original"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, _ := repo.FindByID(ctx, "u-1")
	got.Username = "mutated"

	again, _ := repo.FindByID(ctx, "u-1")
	if again.Username != "original" {
		t.Errorf("Username = %q, want %q (store was mutated through returned copy)", again.Username, "original")
	}
}

// TestMemoryUserRepository_DeleteMissing は存在しないユーザーの削除が
// エラーになることを検証する。
func TestMemoryUserRepository_DeleteMissing(t *testing.T) {
	repo := NewMemoryUserRepository()
	if err := repo.Delete(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for missing user, got nil")
	}
}

// --- OrderRepository ---

// TestMemoryOrderRepository_MostRecentFirst は台帳が新しい順を維持することを検証する。
func TestMemoryOrderRepository_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()

	for _, id := range []string{"o-1", "o-2", "o-3"} {
		if err := repo.Create(ctx, &model.Order{ID: id, Status: model.StatusPending}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []string{"o-3", "o-2", "o-1"}
	if len(got) != len(want) {
		t.Fatalf("len(orders) = %d, want %d", len(got), len(want))
	}
	for i, o := range got {
		if o.ID != want[i] {
			t.Errorf("orders[%d].ID = %q, want %q", i, o.ID, want[i])
		}
	}
}

// TestMemoryOrderRepository_UpdateStatus はステータス更新と
// 存在しない注文のエラーを検証する。
func TestMemoryOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	if err := repo.Create(ctx, &model.Order{ID: "o-1", Status: model.StatusPending}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "o-1", model.StatusShipped); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	got, _ := repo.FindByID(ctx, "o-1")
	if got.Status != model.StatusShipped {
		t.Errorf("Status = %q, want %q", got.Status, model.StatusShipped)
	}

	if err := repo.UpdateStatus(ctx, "missing", model.StatusShipped); err == nil {
		t.Fatal("expected error for missing order, got nil")
	}
}

// TestMemoryOrderRepository_ItemsAreSnapshots は取得した注文の明細を
// 変更しても台帳側が変化しないことを検証する。
func TestMemoryOrderRepository_ItemsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	order := &model.Order{
		ID: "o-1",
		Items: []model.CartLine{
			{Product: model.Product{ID: "p-1", Name: "Teclado"}, Quantity: 2},
		},
	}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, _ := repo.FindByID(ctx, "o-1")
	got.Items[0].Quantity = 99

	again, _ := repo.FindByID(ctx, "o-1")
	if again.Items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2 (ledger was mutated through returned copy)", again.Items[0].Quantity)
	}
}

// --- SessionRepository ---

// TestMemorySessionRepository_Expiry は期限切れセッションがnilになることを検証する。
func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	if err := repo.Create(ctx, &model.Session{
		ID:        "s-expired",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, "s-expired")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expired session = %+v, want nil", got)
	}
}

// TestMemorySessionRepository_DeleteByUserID はユーザー単位の一括削除を検証する。
func TestMemorySessionRepository_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	expires := time.Now().Add(time.Hour)

	_ = repo.Create(ctx, &model.Session{ID: "s-1", UserID: "u-1", ExpiresAt: expires})
	_ = repo.Create(ctx, &model.Session{ID: "s-2", UserID: "u-1", ExpiresAt: expires})
	_ = repo.Create(ctx, &model.Session{ID: "s-3", UserID: "u-2", ExpiresAt: expires})

	if err := repo.DeleteByUserID(ctx, "u-1"); err != nil {
		t.Fatalf("DeleteByUserID returned error: %v", err)
	}

	if s, _ := repo.FindByID(ctx, "s-1"); s != nil {
		t.Error("s-1 still present after DeleteByUserID")
	}
	if s, _ := repo.FindByID(ctx, "s-3"); s == nil {
		t.Error("s-3 was removed but belongs to another user")
	}
}

// TestMemorySessionRepository_DeleteExpired は期限切れセッションの一括回収を検証する。
func TestMemorySessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	_ = repo.Create(ctx, &model.Session{ID: "s-live", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)})
	_ = repo.Create(ctx, &model.Session{ID: "s-dead", UserID: "u-2", ExpiresAt: time.Now().Add(-time.Minute)})

	expired, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if len(expired) != 1 || expired[0] != "s-dead" {
		t.Errorf("expired = %v, want [s-dead]", expired)
	}
	if s, _ := repo.FindByID(ctx, "s-live"); s == nil {
		t.Error("s-live should survive DeleteExpired")
	}
}

// --- CartRepository ---

// TestMemoryCartRepository_RemoveProduct はカタログ削除時に全カートから
// 該当明細が取り除かれることを検証する。
func TestMemoryCartRepository_RemoveProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository()

	lineA := model.CartLine{Product: model.Product{ID: "p-1"}, Quantity: 1}
	lineB := model.CartLine{Product: model.Product{ID: "p-2"}, Quantity: 3}
	_ = repo.SaveLines(ctx, "sess-1", []model.CartLine{lineA, lineB})
	_ = repo.SaveLines(ctx, "sess-2", []model.CartLine{lineA})

	if err := repo.RemoveProduct(ctx, "p-1"); err != nil {
		t.Fatalf("RemoveProduct returned error: %v", err)
	}

	lines1, _ := repo.Lines(ctx, "sess-1")
	if len(lines1) != 1 || lines1[0].Product.ID != "p-2" {
		t.Errorf("sess-1 lines = %+v, want only p-2", lines1)
	}
	lines2, _ := repo.Lines(ctx, "sess-2")
	if len(lines2) != 0 {
		t.Errorf("sess-2 lines = %+v, want empty", lines2)
	}
}

// --- Seed ---

// TestSeedDemoData はデモデータ投入後の件数と表示順を検証する。
func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	products := NewMemoryProductRepository()
	routes := NewMemoryRouteRepository()
	users := NewMemoryUserRepository()
	orders := NewMemoryOrderRepository()

	if err := SeedDemoData(ctx, products, routes, users, orders); err != nil {
		t.Fatalf("SeedDemoData returned error: %v", err)
	}

	ps, _ := products.List(ctx)
	if len(ps) != 6 {
		t.Errorf("len(products) = %d, want 6", len(ps))
	}
	if ps[0].ID != "1" {
		t.Errorf("products[0].ID = %q, want %q (catalog order)", ps[0].ID, "1")
	}

	rs, _ := routes.List(ctx)
	if len(rs) != 4 {
		t.Errorf("len(routes) = %d, want 4", len(rs))
	}
	if !rs[1].Percentage.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("routes[1].Percentage = %s, want 7.5", rs[1].Percentage)
	}

	admin, _ := users.FindByIdentifier(ctx, "admin")
	if admin == nil || admin.Role != model.RoleAdmin {
		t.Errorf("admin user = %+v, want role admin", admin)
	}

	os, _ := orders.List(ctx)
	if len(os) != 2 {
		t.Fatalf("len(orders) = %d, want 2", len(os))
	}
	if os[0].ID != "1001" {
		t.Errorf("orders[0].ID = %q, want %q (most recent first)", os[0].ID, "1001")
	}
}
