// Package badge 在卡片元素上挂载/移除评分角标。
package badge

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/peekrate/internal/domain"
	"github.com/John-Robertt/peekrate/internal/metrics"
)

const (
	// Class 是角标元素的识别 class（Remove 依赖它定位角标）。
	Class = "imdb-rating-badge"
	Star  = "⭐"

	// style 固定：距宿主右上角 8px，z-index 高于卡片内其它内容。
	style = "position:absolute;top:8px;right:8px;z-index:9999;" +
		"background:rgba(0,0,0,0.8);color:#f5c518;padding:2px 6px;" +
		"border-radius:4px;font-size:12px;font-weight:bold;pointer-events:none;"
)

// Renderer 是纯 DOM 变更，没有错误路径。
//
// 约束：
// - 调用方必须持有页面锁（见 dom.Page）
// - 一张卡片至多挂一个角标：Display 总是先移除旧角标
type Renderer struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Renderer {
	if m == nil {
		m = metrics.Nop()
	}
	return &Renderer{metrics: m}
}

// Display 先移除 target 上已有的角标；rating 为空则到此为止，否则追加新角标。
func (r *Renderer) Display(target *goquery.Selection, rating domain.Rating) {
	if target == nil || target.Length() == 0 {
		return
	}
	target = target.First()
	r.remove(target)
	if !rating.Present() {
		return
	}

	ensurePositioned(target)
	target.AppendHtml(Markup(rating))
	r.metrics.BadgesTotal.WithLabelValues(metrics.OpDisplay).Inc()
}

// Remove 移除 target 的角标子元素；没有角标时什么也不做。
func (r *Renderer) Remove(target *goquery.Selection) {
	if target == nil || target.Length() == 0 {
		return
	}
	if r.remove(target.First()) > 0 {
		r.metrics.BadgesTotal.WithLabelValues(metrics.OpRemove).Inc()
	}
}

func (r *Renderer) remove(target *goquery.Selection) int {
	old := target.ChildrenFiltered("." + Class)
	n := old.Length()
	if n > 0 {
		old.Remove()
	}
	return n
}

// Markup 返回角标 HTML：星标 + 评分文本。
func Markup(rating domain.Rating) string {
	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(Class)
	b.WriteString(`" style="`)
	b.WriteString(style)
	b.WriteString(`">`)
	b.WriteString(Star)
	b.WriteString(" ")
	b.WriteString(html.EscapeString(rating.String()))
	b.WriteString(`</div>`)
	return b.String()
}

// ensurePositioned 保证宿主不是 static 定位，让绝对定位的角标以它为锚点。
// 只看内联 style（没有计算样式可用）。
func ensurePositioned(target *goquery.Selection) {
	st, _ := target.Attr("style")
	if positioned(st) {
		return
	}
	st = strings.TrimRight(strings.TrimSpace(st), ";")
	if st == "" {
		target.SetAttr("style", "position:relative")
		return
	}
	target.SetAttr("style", st+";position:relative")
}

func positioned(style string) bool {
	pos := ""
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), "position") {
			// 后写的声明覆盖先写的。
			pos = strings.ToLower(strings.TrimSpace(v))
		}
	}
	return pos != "" && pos != "static"
}
