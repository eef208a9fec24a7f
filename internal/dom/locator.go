package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/peekrate/internal/domain"
)

const (
	DefaultCardSelector = ".title-card"
	DefaultTitleAttr    = "aria-label"
)

// Selectors 描述环境相关的页面约定：哪些元素是卡片、标题放在哪个属性里。
// 选择器不匹配时一律视为“没有”，不是错误。
type Selectors struct {
	Card      string
	TitleAttr string
}

func DefaultSelectors() Selectors {
	return Selectors{Card: DefaultCardSelector, TitleAttr: DefaultTitleAttr}
}

// Locator 基于 goquery 实现“向上找最近卡片 / 向下找标题属性”。
type Locator struct {
	sel Selectors
}

func NewLocator(sel Selectors) Locator {
	if strings.TrimSpace(sel.Card) == "" {
		sel.Card = DefaultCardSelector
	}
	if strings.TrimSpace(sel.TitleAttr) == "" {
		sel.TitleAttr = DefaultTitleAttr
	}
	return Locator{sel: sel}
}

func (l Locator) Selectors() Selectors { return l.sel }

// ClosestCard 从 target 自身开始向上查找第一个匹配卡片选择器的元素。
func (l Locator) ClosestCard(target *goquery.Selection) (*goquery.Selection, bool) {
	if target == nil || target.Length() == 0 {
		return nil, false
	}
	card := target.First().Closest(l.sel.Card)
	if card.Length() == 0 {
		return nil, false
	}
	return card, true
}

// TitleOf 读取卡片内第一个带标题属性的后代元素的属性值（原样，不做规范化）。
// 属性缺失或为空串都视为没有标题。
func (l Locator) TitleOf(card *goquery.Selection) (domain.Title, bool) {
	if card == nil || card.Length() == 0 {
		return "", false
	}
	v, ok := card.First().Find("[" + l.sel.TitleAttr + "]").First().Attr(l.sel.TitleAttr)
	if !ok || v == "" {
		return "", false
	}
	return domain.Title(v), true
}
