// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordOrderConfirmed()
	RecordEmailSuccess(durationSeconds float64)
	RecordEmailFailure()
	RecordCSVExport(rows int)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	ordersConfirmed prometheus.Counter
	emailSuccess    prometheus.Counter
	emailFail       prometheus.Counter
	emailLatency    prometheus.Histogram
	csvRows         prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFail       prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ordersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_orders_confirmed_total",
			Help: "確定された注文の合計数",
		}),
		emailSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_email_generation_success_total",
			Help: "確認メール生成成功の合計数",
		}),
		emailFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_email_generation_fail_total",
			Help: "確認メール生成失敗（フォールバック返却）の合計数",
		}),
		emailLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "easyorder_email_generation_latency_seconds",
			Help:    "確認メール生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		csvRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_csv_export_rows_total",
			Help: "CSVエクスポートで出力された行の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyorder_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "easyorder_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.ordersConfirmed,
		c.emailSuccess,
		c.emailFail,
		c.emailLatency,
		c.csvRows,
		c.loginSuccess,
		c.loginFail,
		c.httpStatus,
	)

	return c
}

// RecordOrderConfirmed は注文確定を記録する。
func (c *Collector) RecordOrderConfirmed() {
	c.ordersConfirmed.Inc()
}

// RecordEmailSuccess は確認メール生成の成功とレイテンシを記録する。
func (c *Collector) RecordEmailSuccess(durationSeconds float64) {
	c.emailSuccess.Inc()
	c.emailLatency.Observe(durationSeconds)
}

// RecordEmailFailure は確認メール生成の失敗を記録する。
func (c *Collector) RecordEmailFailure() {
	c.emailFail.Inc()
}

// RecordCSVExport はCSVエクスポートの出力行数を記録する。
func (c *Collector) RecordCSVExport(rows int) {
	c.csvRows.Add(float64(rows))
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
