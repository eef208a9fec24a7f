// Package session 组装一次页面会话：缓存、查询、防抖与悬停控制器都挂在同一个 Session 上。
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/John-Robertt/peekrate/internal/badge"
	"github.com/John-Robertt/peekrate/internal/config"
	"github.com/John-Robertt/peekrate/internal/debounce"
	"github.com/John-Robertt/peekrate/internal/dom"
	"github.com/John-Robertt/peekrate/internal/fetcher"
	"github.com/John-Robertt/peekrate/internal/hover"
	"github.com/John-Robertt/peekrate/internal/infra/cache"
	"github.com/John-Robertt/peekrate/internal/infra/httpx"
	"github.com/John-Robertt/peekrate/internal/logging"
	"github.com/John-Robertt/peekrate/internal/metrics"
	"github.com/John-Robertt/peekrate/internal/provider"
	"github.com/John-Robertt/peekrate/internal/provider/omdb"
)

// Options 允许替换会话的外部依赖；零值即生产配置。
type Options struct {
	// Provider 为空时按 EffectiveConfig 构造 OMDb provider。
	Provider provider.Provider
	// Clock 为空时使用真实时钟。
	Clock clockwork.Clock
	// Registerer 为空时使用会话私有的 registry。
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

// Session 在页面生命周期内只构造一次。不同 Session 之间不共享任何状态。
type Session struct {
	ID uuid.UUID

	Page    *dom.Page
	Cache   *cache.Ratings
	Fetcher *fetcher.Fetcher
	Metrics *metrics.Metrics

	controller *hover.Controller
	cancel     context.CancelFunc
	logger     *slog.Logger
}

func New(eff config.EffectiveConfig, page *dom.Page, opts Options) (*Session, error) {
	if page == nil {
		return nil, errors.New("page 不能为空")
	}
	id := uuid.New()

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("session", id.String())

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	p := opts.Provider
	if p == nil {
		c, err := httpx.NewClient(eff.ProxyURL)
		if err != nil {
			return nil, err
		}
		p = omdb.Provider{BaseURL: eff.BaseURL, APIKey: eff.APIKey, Client: c}
	}

	ratings := cache.New()
	f := fetcher.New(ratings, p, logger, m)

	ctx, cancel := context.WithCancel(context.Background())
	ctrl := hover.New(ctx, hover.Deps{
		DOM:          page,
		Locator:      dom.NewLocator(eff.Selectors),
		Renderer:     badge.New(m),
		Fetcher:      f,
		Debouncer:    debounce.New(eff.Debounce, opts.Clock),
		Logger:       logger,
		ShowNotFound: eff.ShowNotFound,
	})

	logger.Debug("session started",
		"provider", p.Name(),
		"debounce", eff.Debounce,
		"card_selector", eff.Selectors.Card,
		"title_attr", eff.Selectors.TitleAttr,
	)

	return &Session{
		ID:         id,
		Page:       page,
		Cache:      ratings,
		Fetcher:    f,
		Metrics:    m,
		controller: ctrl,
		cancel:     cancel,
		logger:     logger,
	}, nil
}

// Handler 返回页面级事件委托的接收方。
func (s *Session) Handler() hover.Handler { return s.controller }

// Wait 阻塞到所有已触发的进入处理结束。
func (s *Session) Wait() { s.controller.Wait() }

// Close 取消待执行的进入处理与进行中的查询，并等待收尾。
func (s *Session) Close() {
	s.controller.Cancel()
	s.cancel()
	s.controller.Wait()
	s.logger.Debug("session closed", "cached", s.Cache.Len())
}
