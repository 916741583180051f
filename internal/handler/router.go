package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Metrics           metrics.Recorder
	Gatherer          prometheus.Gatherer
	HealthChecker     Pinger
	CookieConfig      middleware.CookieConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	SessionValidator  middleware.SessionValidator

	// ログイン画面
	GateService GateServiceInterface

	// 注文画面
	LedgerService LedgerServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → ClientID → CSRF → RateLimit(General)
//
// 注文APIはさらにSessionミドルウェアの内側に置く。
// /healthと/metricsはクライアントIDを必要としないため、チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	// --- クライアントID不要のルート ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	sessionHandler := NewSessionHandler(deps.GateService)
	orderHandler := NewOrderHandler(deps.LedgerService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewClientIDMiddleware(deps.CookieConfig))
		r.Use(middleware.NewCSRFMiddleware(deps.CookieConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CookieConfig).ServeHTTP)

		// ログイン画面
		r.Get("/api/session", sessionHandler.CheckSession)
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/login", sessionHandler.Login)
		r.Post("/api/logout", sessionHandler.Logout)

		// 注文画面（有効なセッションが必要）
		r.Route("/api/orders", func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionValidator))

			r.Get("/", orderHandler.ListOrders)
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/summary", orderHandler.GetSummary)
			r.Post("/field-policy", orderHandler.FieldPolicy)
			r.Delete("/{id}", orderHandler.DeleteOrder)
		})
	})

	return r
}
