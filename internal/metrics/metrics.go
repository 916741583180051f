// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス記録のインターフェース。
// セッションゲート、注文台帳、HTTP層から利用する。
type Recorder interface {
	RecordLogin(success bool)
	RecordSessionExpired()
	RecordSessionsSwept(count int)
	RecordOrderCreated(serviceType string)
	RecordOrderDeleted()
	RecordDecodeFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginAttempts   *prometheus.CounterVec
	sessionsExpired prometheus.Counter
	sessionsSwept   prometheus.Counter
	ordersCreated   *prometheus.CounterVec
	ordersDeleted   prometheus.Counter
	decodeFailures  prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordertracker_login_attempts_total",
			Help: "ログイン試行の合計数（結果別）",
		}, []string{"result"}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordertracker_sessions_expired_total",
			Help: "期限切れとして破棄されたセッションの合計数",
		}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordertracker_sessions_swept_total",
			Help: "定期クリーンアップで削除されたセッションの件数",
		}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordertracker_orders_created_total",
			Help: "登録された注文の合計数（サービス種別別）",
		}, []string{"service_type"}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordertracker_orders_deleted_total",
			Help: "削除された注文の合計数",
		}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordertracker_storage_decode_failures_total",
			Help: "保存済み注文一覧のデコード失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordertracker_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginAttempts,
		c.sessionsExpired,
		c.sessionsSwept,
		c.ordersCreated,
		c.ordersDeleted,
		c.decodeFailures,
		c.httpStatus,
	)

	return c
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.loginAttempts.WithLabelValues(result).Inc()
}

// RecordSessionExpired は期限切れセッションの破棄を記録する。
func (c *Collector) RecordSessionExpired() {
	c.sessionsExpired.Inc()
}

// RecordSessionsSwept は定期クリーンアップの削除件数を記録する。
func (c *Collector) RecordSessionsSwept(count int) {
	c.sessionsSwept.Add(float64(count))
}

// RecordOrderCreated は注文登録を記録する。
func (c *Collector) RecordOrderCreated(serviceType string) {
	c.ordersCreated.WithLabelValues(serviceType).Inc()
}

// RecordOrderDeleted は注文削除を記録する。
func (c *Collector) RecordOrderDeleted() {
	c.ordersDeleted.Inc()
}

// RecordDecodeFailure は注文一覧のデコード失敗を記録する。
func (c *Collector) RecordDecodeFailure() {
	c.decodeFailures.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないRecorder。
type Nop struct{}

func (Nop) RecordLogin(bool) {}
func (Nop) RecordSessionExpired() {}
func (Nop) RecordSessionsSwept(int) {}
func (Nop) RecordOrderCreated(string) {}
func (Nop) RecordOrderDeleted() {}
func (Nop) RecordDecodeFailure() {}
func (Nop) RecordHTTPStatus(int) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
