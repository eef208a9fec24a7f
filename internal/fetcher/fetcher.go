// Package fetcher 实现“缓存优先、未命中才远端查询”的评分获取。
package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/John-Robertt/peekrate/internal/domain"
	"github.com/John-Robertt/peekrate/internal/logging"
	"github.com/John-Robertt/peekrate/internal/metrics"
	"github.com/John-Robertt/peekrate/internal/provider"
)

// Store 是 fetcher 依赖的缓存能力（*cache.Ratings 满足该接口）。
type Store interface {
	Get(title domain.Title) (domain.Rating, bool)
	Set(title domain.Title, r domain.Rating)
}

// Fetcher 被同一会话内的所有调用方共享。
//
// 约束：
// - 确定结果（含 NotFound）写入缓存后永不再远端查询
// - 瞬时失败只记日志与计数，不写缓存，返回空结果
// - 不对并发的相同查询去重：两次几乎同时的悬停可能各发一次请求，后写覆盖先写（值相同）
type Fetcher struct {
	store    Store
	provider provider.Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(store Store, p provider.Provider, logger *slog.Logger, m *metrics.Metrics) *Fetcher {
	if logger == nil {
		logger = logging.Discard()
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Fetcher{store: store, provider: p, logger: logger, metrics: m}
}

// Fetch 返回 title 的评分；空结果表示“不展示”（空 title 或瞬时失败）。
func (f *Fetcher) Fetch(ctx context.Context, title domain.Title) domain.Rating {
	if title.Empty() {
		return ""
	}

	if r, ok := f.store.Get(title); ok {
		f.metrics.LookupsTotal.WithLabelValues(metrics.ResultHit).Inc()
		f.logger.Debug("rating cache hit", "title", title, "rating", r)
		return r
	}

	start := time.Now()
	r, err := f.provider.Lookup(ctx, title)
	f.metrics.LookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.LookupsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		f.logger.Warn("rating lookup failed",
			"title", title,
			"provider", f.provider.Name(),
			"error", err,
		)
		return ""
	}
	if !r.Present() {
		// provider 违反契约（err==nil 却无结果）：按负结果处理，避免反复查询。
		r = domain.NotFound
	}

	f.store.Set(title, r)
	if r.IsNotFound() {
		f.metrics.LookupsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
	} else {
		f.metrics.LookupsTotal.WithLabelValues(metrics.ResultFound).Inc()
	}
	f.logger.Debug("rating fetched", "title", title, "rating", r, "dur", time.Since(start))
	return r
}
