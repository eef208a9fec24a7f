// Package metrics 定义评分管线的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 评分获取结果（LookupsTotal 的 result 标签）。
const (
	ResultHit      = "hit"
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultFailed   = "failed"
)

// 角标变更（BadgesTotal 的 op 标签）。
const (
	OpDisplay = "display"
	OpRemove  = "remove"
)

// Metrics 每个 registry 只能构造一次；需要隔离的会话（测试、同进程多页面）各自传入 prometheus.Registry。
type Metrics struct {
	// LookupsTotal 按结果计数：hit/found/not_found/failed
	LookupsTotal *prometheus.CounterVec

	// LookupDuration 记录远端查询耗时（秒），不含缓存命中
	LookupDuration prometheus.Histogram

	// BadgesTotal 按操作计数角标变更
	BadgesTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peekrate_lookups_total",
				Help: "Rating fetches by result",
			},
			[]string{"result"},
		),
		LookupDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "peekrate_lookup_duration_seconds",
				Help:    "Remote rating lookup duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		BadgesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peekrate_badges_total",
				Help: "Badge mutations by operation",
			},
			[]string{"op"},
		),
	}
}

// Nop 返回绑定到临时 registry 的指标，调用方不关心指标时使用。
func Nop() *Metrics { return New(prometheus.NewRegistry()) }
