// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/easyorder/internal/auth"
	"github.com/hitoshi/easyorder/internal/cart"
	"github.com/hitoshi/easyorder/internal/catalog"
	"github.com/hitoshi/easyorder/internal/config"
	"github.com/hitoshi/easyorder/internal/email"
	"github.com/hitoshi/easyorder/internal/handler"
	"github.com/hitoshi/easyorder/internal/logger"
	"github.com/hitoshi/easyorder/internal/metrics"
	"github.com/hitoshi/easyorder/internal/middleware"
	"github.com/hitoshi/easyorder/internal/order"
	"github.com/hitoshi/easyorder/internal/repository"
	"github.com/hitoshi/easyorder/internal/security"
	"github.com/hitoshi/easyorder/internal/shipping"
	"github.com/hitoshi/easyorder/internal/user"
	"github.com/hitoshi/easyorder/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// .envファイル（存在すれば）と環境変数からConfigを読み込み、
// JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	// 1. .envファイルの読み込み（任意。本番は環境変数で渡す）
	// ログレベルも.envで指定できるよう、ロガー初期化より先に読む
	envLoaded := godotenv.Load() == nil

	// 2. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))
	if envLoaded {
		slog.Info("loaded configuration from .env file")
	}

	// 3. 環境変数から設定を読み込む
	return config.Load()
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg := Init(w)

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// インメモリストアと全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. リポジトリの初期化（インメモリ）
	userRepo := repository.NewMemoryUserRepository()
	productRepo := repository.NewMemoryProductRepository()
	routeRepo := repository.NewMemoryRouteRepository()
	orderRepo := repository.NewMemoryOrderRepository()
	sessionRepo := repository.NewMemorySessionRepository()
	cartRepo := repository.NewMemoryCartRepository()

	if cfg.SeedDemoData {
		if err := repository.SeedDemoData(ctx, productRepo, routeRepo, userRepo, orderRepo); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		slog.Info("demo data seeded")
	}

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewEmailSanitizer()

	// 4. メール生成の初期化
	// APIキー未設定の場合、注文確定はフォールバック文言で成立する
	var emailGen *email.Generator
	if cfg.GeminiAPIKey != "" {
		geminiClient := email.NewGeminiClient(
			&http.Client{Timeout: cfg.EmailTimeout},
			slog.Default(), cfg.GeminiAPIKey, cfg.GeminiModel,
		)
		emailGen = email.NewGenerator(geminiClient, sanitizer, collector, cfg.EmailTimeout)
		slog.Info("gemini email generation enabled", slog.String("model", cfg.GeminiModel))
	} else {
		emailGen = email.NewGenerator(nil, sanitizer, collector, cfg.EmailTimeout)
		slog.Warn("GEMINI_API_KEY is not set; order emails will use fallback text")
	}

	// 5. ドメインサービスの初期化
	authService := auth.NewService(
		userRepo, sessionRepo, cartRepo, collector,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	imageFetcher := catalog.NewImageFetcher(ssrfGuard)
	catalogService := catalog.NewService(productRepo, cartRepo, imageFetcher)
	cartService := cart.NewService(productRepo, cartRepo)
	orderService := order.NewService(orderRepo, cartRepo, routeRepo, emailGen, collector)
	userService := user.NewService(userRepo)
	shippingService := shipping.NewService(routeRepo)

	// 6. レート制限の構成（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.LoginRate = rate.Limit(float64(cfg.RateLimitLogin) / 60.0)
	rateLimiterCfg.LoginBurst = cfg.RateLimitLogin
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		SessionFinder:     sessionRepo,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		StatusRecorder:    collector,
		MetricsHandler:    metrics.Handler(registry),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		CatalogService: catalogService,
		CartService:    cartService,
		UserProvider:   userRepo,
		OrderService:   orderService,
		UserLister:     userRepo,
		CSVRecorder:    collector,

		UserService:     userService,
		ShippingService: shippingService,
	}

	router := handler.NewRouter(deps)

	// 8. セッションクリーンアップジョブをバックグラウンドで起動
	cleanupJob := cleanup.NewSessionCleanupJob(sessionRepo, cartRepo, slog.Default())
	go cleanupJob.Start(ctx)

	// 9. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
