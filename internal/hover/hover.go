// Package hover 把指针进入/离开事件编排为“防抖 -> 定位卡片 -> 取标题 -> 查评分 -> 挂角标”。
package hover

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/peekrate/internal/config"
	"github.com/John-Robertt/peekrate/internal/debounce"
	"github.com/John-Robertt/peekrate/internal/dom"
	"github.com/John-Robertt/peekrate/internal/domain"
	"github.com/John-Robertt/peekrate/internal/logging"
)

// Handler 是页面级事件委托的接收方：所有卡片的进入/离开都汇到这里。
type Handler interface {
	OnEnter(ev dom.Event)
	OnLeave(ev dom.Event)
}

// Locator 是 DOM 遍历能力（dom.Locator 满足该接口；测试可替换）。
type Locator interface {
	ClosestCard(target *goquery.Selection) (*goquery.Selection, bool)
	TitleOf(card *goquery.Selection) (domain.Title, bool)
}

// Renderer 是角标变更能力（*badge.Renderer 满足该接口）。
type Renderer interface {
	Display(target *goquery.Selection, rating domain.Rating)
	Remove(target *goquery.Selection)
}

// Fetcher 是评分获取能力（*fetcher.Fetcher 满足该接口）。
type Fetcher interface {
	Fetch(ctx context.Context, title domain.Title) domain.Rating
}

// Deps 汇总控制器的协作者。DOM 是页面锁：所有 Locator/Renderer 调用都在锁内。
type Deps struct {
	DOM       sync.Locker
	Locator   Locator
	Renderer  Renderer
	Fetcher   Fetcher
	Debouncer *debounce.Debouncer
	Logger    *slog.Logger

	// ShowNotFound 为 true 时，NotFound 也会以 "N/A" 角标展示；默认不展示。
	ShowNotFound bool
}

// Controller 只有一项可变状态：是否存在待执行的进入处理（由 Debouncer 持有）。
//
// 约束：
// - 进入事件尾沿防抖：连续进入只执行最后一次
// - 离开事件同步执行：找到卡片则取消待执行任务并移除角标
// - 远端查询期间不持页面锁；已发出的查询不随离开取消（结果仍会挂角标）
type Controller struct {
	ctx          context.Context
	dom          sync.Locker
	locator      Locator
	renderer     Renderer
	fetcher      Fetcher
	debouncer    *debounce.Debouncer
	logger       *slog.Logger
	showNotFound bool

	// inflight 统计“已调度且尚未结束”的进入处理，用于 Wait。
	// Wait 可与 OnEnter 并发，计数由 mu 保护。
	mu       sync.Mutex
	idle     *sync.Cond
	inflight int
}

var _ Handler = (*Controller)(nil)

// New 构造控制器；ctx 是页面会话的生命周期，用于所有远端查询。
// Logger/DOM/Debouncer 为空时使用默认值（丢弃日志、私有锁、真实时钟 + 默认静默期）。
func New(ctx context.Context, d Deps) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.DOM == nil {
		d.DOM = &sync.Mutex{}
	}
	if d.Debouncer == nil {
		d.Debouncer = debounce.New(config.DefaultDebounce, nil)
	}
	c := &Controller{
		ctx:          ctx,
		dom:          d.DOM,
		locator:      d.Locator,
		renderer:     d.Renderer,
		fetcher:      d.Fetcher,
		debouncer:    d.Debouncer,
		logger:       d.Logger,
		showNotFound: d.ShowNotFound,
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// OnEnter 调度（替换任何待执行的）进入处理。
func (c *Controller) OnEnter(ev dom.Event) {
	c.add()
	if c.debouncer.Schedule(func() {
		defer c.done()
		c.handleEnter(ev)
	}) {
		// 被替换的旧任务保证不会执行。
		c.done()
	}
}

// OnLeave 找到事件目标所在卡片时，取消待执行的进入处理并立即移除该卡片的角标。
func (c *Controller) OnLeave(ev dom.Event) {
	c.dom.Lock()
	defer c.dom.Unlock()

	card, ok := c.locator.ClosestCard(ev.Target)
	if !ok {
		return
	}
	c.cancelPending()
	c.renderer.Remove(card)
}

// Cancel 取消待执行的进入处理（会话关闭时使用）。
func (c *Controller) Cancel() { c.cancelPending() }

// Wait 阻塞到所有已调度的进入处理结束（执行完或被取消）。可与 OnEnter 并发调用。
func (c *Controller) Wait() {
	c.mu.Lock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
	c.mu.Unlock()
}

func (c *Controller) add() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Controller) done() {
	c.mu.Lock()
	c.inflight--
	if c.inflight == 0 {
		c.idle.Broadcast()
	}
	c.mu.Unlock()
}

func (c *Controller) cancelPending() {
	if c.debouncer.Cancel() {
		c.done()
	}
}

func (c *Controller) handleEnter(ev dom.Event) {
	c.dom.Lock()
	card, ok := c.locator.ClosestCard(ev.Target)
	var title domain.Title
	if ok {
		title, ok = c.locator.TitleOf(card)
	}
	c.dom.Unlock()
	if !ok {
		return
	}

	rating := c.fetcher.Fetch(c.ctx, title)
	if !rating.Present() {
		return
	}
	if rating.IsNotFound() && !c.showNotFound {
		c.logger.Debug("rating not found, skip badge", "title", title)
		return
	}

	c.dom.Lock()
	c.renderer.Display(card, rating)
	c.dom.Unlock()
}
