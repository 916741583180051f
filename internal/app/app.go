// Package app は設定の読み込み、依存関係のワイヤリング、各サブコマンドの実行を行う。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/SorynSolutions/soryn-order-tracker/internal/auth"
	"github.com/SorynSolutions/soryn-order-tracker/internal/config"
	"github.com/SorynSolutions/soryn-order-tracker/internal/database"
	"github.com/SorynSolutions/soryn-order-tracker/internal/handler"
	"github.com/SorynSolutions/soryn-order-tracker/internal/ledger"
	"github.com/SorynSolutions/soryn-order-tracker/internal/logger"
	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/middleware"
	"github.com/SorynSolutions/soryn-order-tracker/internal/repository"
	"github.com/SorynSolutions/soryn-order-tracker/internal/security"
	"github.com/SorynSolutions/soryn-order-tracker/internal/session"
	"github.com/SorynSolutions/soryn-order-tracker/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. LOG_LEVELを反映する
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// storage はストレージバックエンドの組み合わせを表す。
type storage struct {
	kv     repository.KeyValueStore
	pinger handler.Pinger // nilの場合はメモリストレージ
	db     *sql.DB        // PostgreSQL使用時のみ
}

// Close はDB接続を閉じる。メモリストレージの場合は何もしない。
func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openStorage はDATABASE_URLに応じてストレージを開く。
// 未設定の場合はプロセス内のメモリストレージを使う（再起動で消える）。
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set; using in-memory storage, data will be lost on restart")
		return &storage{kv: repository.NewMemoryKVStore()}, nil
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("database connection established",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	kv := repository.NewPostgresKVStore(db)
	return &storage{kv: kv, pinger: kv, db: db}, nil
}

// newProvider は設定された資格情報テーブルからauth.Providerを生成する。
// 平文テーブルは後方互換のためだけに受け付け、使用時は警告を出す。
func newProvider(cfg *config.Config) (auth.Provider, error) {
	if !cfg.UsesPlaintextCredentials() {
		p, err := auth.NewBcryptProvider(cfg.AuthUsers)
		if err != nil {
			return nil, fmt.Errorf("failed to load AUTH_USERS: %w", err)
		}
		return p, nil
	}

	slog.Warn("plaintext credentials are in use; configure AUTH_USERS with bcrypt hashes instead",
		slog.String("security_finding", "plaintext_credentials"),
		slog.Int("user_count", len(cfg.AuthPlaintextUsers)),
	)
	return auth.NewPlaintextProvider(cfg.AuthPlaintextUsers), nil
}

// application はワイヤリング済みのHTTPハンドラーとバックグラウンド処理を保持する。
type application struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	sweeper     *cleanup.Runner
}

// Close はバックグラウンド処理を停止する。
func (a *application) Close() {
	a.rateLimiter.Stop()
}

// newApplication は全依存関係をワイヤリングする。
func newApplication(cfg *config.Config, st *storage, log *slog.Logger) (*application, error) {
	// 1. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 2. リポジトリ
	sessionRepo := repository.NewStorageSessionRepo(st.kv)
	orderRepo := repository.NewStorageOrderRepo(st.kv)

	// 3. ドメインサービス
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	policy := session.NewPolicy(sessionRepo, cfg.SessionDuration, collector)
	gate := session.NewGate(policy, provider, collector)
	ledgerService := ledger.NewService(
		policy, orderRepo, security.NewTextSanitizer(), collector,
		ledger.Config{Location: cfg.DisplayLocation},
	)

	// 4. レート制限（req/min -> req/sec に変換）
	rlCfg := middleware.DefaultRateLimiterConfig()
	rlCfg.GeneralRate, rlCfg.GeneralBurst = middleware.PerMinute(cfg.RateLimitGeneral)
	rlCfg.LoginRate, rlCfg.LoginBurst = middleware.PerMinute(cfg.RateLimitLogin)
	rateLimiter := middleware.NewRateLimiter(rlCfg)

	// 5. ルーター
	deps := &handler.RouterDeps{
		Logger:   log,
		Metrics:  collector,
		Gatherer: registry,
		CookieConfig: middleware.CookieConfig{
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
		},
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		HealthChecker:     st.pinger,
		RateLimiter:       rateLimiter,
		SessionValidator:  ledgerService,
		GateService:       gate,
		LedgerService:     ledgerService,
	}

	// 6. 期限切れセッションのクリーンアップ
	var job cleanup.Job
	if st.db != nil {
		job = cleanup.NewSQLSessionJob(st.db, cfg.SessionDuration, log)
	} else if lister, ok := st.kv.(cleanup.NamespaceLister); ok {
		job = cleanup.NewPolicySessionJob(lister, policy)
	}

	app := &application{
		handler:     handler.NewRouter(deps),
		rateLimiter: rateLimiter,
	}
	if job != nil {
		app.sweeper = cleanup.NewRunner(job, cfg.SessionSweepInterval, collector, log)
	}
	return app, nil
}

// runServe はAPIサーバーモードで起動する。
// ストレージを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	app, err := newApplication(cfg, st, slog.Default())
	if err != nil {
		return err
	}
	defer app.Close()

	if app.sweeper != nil {
		go app.sweeper.Start(ctx)
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
			slog.Duration("session_duration", cfg.SessionDuration),
			slog.String("display_timezone", cfg.DisplayLocation.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
