package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/easyorder/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusRecorder    middleware.StatusRecorder

	// 運用エンドポイント
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// カタログ
	CatalogService CatalogServiceInterface

	// カート
	CartService  CartServiceInterface
	UserProvider UserProviderInterface

	// 注文
	OrderService OrderServiceInterface
	UserLister   UserListerInterface
	CSVRecorder  CSVRecorder

	// ユーザー管理
	UserService UserServiceInterface

	// 配送ルート
	ShippingService ShippingServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → (Session → RateLimit(General) → (Admin))
//
// 認証ルート（/api/auth/*）と配送ルート一覧はセッションチェーンの外に配置する。
// ログイン・登録・リセットには認証前レート制限（IP単位）を個別に適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	cartHandler := NewCartHandler(deps.CartService, deps.ShippingService, deps.UserProvider, deps.CSVRecorder)
	orderHandler := NewOrderHandler(deps.OrderService, deps.UserProvider, deps.UserLister, deps.CSVRecorder)
	userHandler := NewUserHandler(deps.UserService)
	shippingHandler := NewShippingHandler(deps.ShippingService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		loginLimit := deps.RateLimiter.LoginMiddleware()
		r.With(loginLimit).Post("/login", authHandler.Login)
		r.With(loginLimit).Post("/register", authHandler.Register)
		r.With(loginLimit).Post("/reset-password", authHandler.ResetPassword)

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 登録フォームの地域選択に使うため認証不要
	r.Get("/api/shipping-routes", shippingHandler.ListRoutes)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// カタログ
		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}/image", catalogHandler.GetProductImage)
		})

		// カート
		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.UpdateCart)
			r.Get("/export", cartHandler.ExportCart)
		})

		// 注文
		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", orderHandler.ConfirmOrder)
			r.Get("/", orderHandler.ListMyOrders)
		})

		// --- 管理者専用ルート ---
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware(deps.UserFinder))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateProduct)
				r.Delete("/{id}", catalogHandler.DeleteProduct)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Post("/", userHandler.CreateUser)
				r.Put("/{id}", userHandler.UpdateUser)
				r.Delete("/{id}", userHandler.DeleteUser)
			})

			r.Route("/shipping-routes", func(r chi.Router) {
				r.Post("/", shippingHandler.CreateRoute)
				r.Put("/{id}", shippingHandler.UpdateRoute)
				r.Delete("/{id}", shippingHandler.DeleteRoute)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.ListAllOrders)
				r.Get("/stats", orderHandler.GetStats)
				r.Get("/export", orderHandler.ExportOrders)
				r.Get("/{id}/export", orderHandler.ExportOrder)
				r.Patch("/{id}/status", orderHandler.UpdateOrderStatus)
			})
		})
	})

	return r
}
