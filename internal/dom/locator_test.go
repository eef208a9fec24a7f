package dom

import (
	"testing"
)

const rowHTML = `<html><body>
<div class="row">
  <div class="title-card" id="c1">
    <a href="/watch/1" aria-label="Title A"><img class="boxart" src="a.jpg"></a>
  </div>
  <div class="title-card" id="c2">
    <a href="/watch/2" aria-label="  Spaced Title (2019) "><span class="inner"><img src="b.jpg"></span></a>
  </div>
  <div class="title-card" id="c3"><img src="c.jpg"></div>
  <div class="title-card" id="c4"><a aria-label="">x</a></div>
  <div class="banner" id="outside"><span>ad</span></div>
</div>
</body></html>`

func mustPage(t *testing.T) *Page {
	t.Helper()
	p, err := LoadString(rowHTML)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	return p
}

func TestClosestCard_FromDescendant(t *testing.T) {
	p := mustPage(t)
	l := NewLocator(DefaultSelectors())

	card, ok := l.ClosestCard(p.Find("#c2 img"))
	if !ok {
		t.Fatalf("期望找到卡片")
	}
	if id, _ := card.Attr("id"); id != "c2" {
		t.Fatalf("期望 c2，实际=%q", id)
	}
}

func TestClosestCard_SelfMatches(t *testing.T) {
	p := mustPage(t)
	l := NewLocator(DefaultSelectors())

	card, ok := l.ClosestCard(p.Find("#c1"))
	if !ok {
		t.Fatalf("期望找到卡片")
	}
	if id, _ := card.Attr("id"); id != "c1" {
		t.Fatalf("期望 c1，实际=%q", id)
	}
}

func TestClosestCard_NoMatch(t *testing.T) {
	p := mustPage(t)
	l := NewLocator(DefaultSelectors())

	if _, ok := l.ClosestCard(p.Find("#outside span")); ok {
		t.Fatalf("卡片外的元素不应找到卡片")
	}
	if _, ok := l.ClosestCard(p.Find("#does-not-exist")); ok {
		t.Fatalf("空 Selection 不应找到卡片")
	}
	if _, ok := l.ClosestCard(nil); ok {
		t.Fatalf("nil 不应找到卡片")
	}
}

func TestClosestCard_InvalidSelectorIsNoMatch(t *testing.T) {
	p := mustPage(t)
	l := NewLocator(Selectors{Card: "[[[", TitleAttr: "aria-label"})
	if _, ok := l.ClosestCard(p.Find("#c1 img")); ok {
		t.Fatalf("非法选择器应静默不匹配")
	}
}

func TestTitleOf(t *testing.T) {
	p := mustPage(t)
	l := NewLocator(DefaultSelectors())

	cases := []struct {
		card string
		want string
		ok   bool
	}{
		{card: "#c1", want: "Title A", ok: true},
		// 标题原样返回，不裁剪空白、不去年份后缀。
		{card: "#c2", want: "  Spaced Title (2019) ", ok: true},
		{card: "#c3", ok: false},
		{card: "#c4", ok: false},
	}
	for _, c := range cases {
		got, ok := l.TitleOf(p.Find(c.card))
		if ok != c.ok || string(got) != c.want {
			t.Fatalf("%s: 期望 (%q,%v)，实际 (%q,%v)", c.card, c.want, c.ok, got, ok)
		}
	}
}

func TestTitleOf_CustomAttr(t *testing.T) {
	p, err := LoadString(`<div class="slider-item"><div data-title="Other"></div></div>`)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l := NewLocator(Selectors{Card: ".slider-item", TitleAttr: "data-title"})

	card, ok := l.ClosestCard(p.Find("[data-title]"))
	if !ok {
		t.Fatalf("期望找到卡片")
	}
	got, ok := l.TitleOf(card)
	if !ok || got != "Other" {
		t.Fatalf("期望 Other，实际 (%q,%v)", got, ok)
	}
}

func TestNewLocator_FillsDefaults(t *testing.T) {
	l := NewLocator(Selectors{})
	if l.Selectors() != DefaultSelectors() {
		t.Fatalf("期望默认选择器，实际=%+v", l.Selectors())
	}
}

func TestLoad_NilReader(t *testing.T) {
	if _, err := Load(nil); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}
