// Package dom 把页面 DOM 建模为 goquery 文档，并提供卡片定位与标题提取能力。
package dom

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page 是一张已解析的页面。
//
// 约束：goquery 文档不是并发安全的；所有读写必须在 Lock/Unlock 之间进行。
// Page 本身实现 sync.Locker，hover 控制器用它串行化 DOM 读写。
type Page struct {
	mu  sync.Mutex
	doc *goquery.Document
}

func Load(r io.Reader) (*Page, error) {
	if r == nil {
		return nil, errors.New("reader 不能为空")
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc}, nil
}

func LoadString(html string) (*Page, error) {
	return Load(strings.NewReader(html))
}

func (p *Page) Lock()   { p.mu.Lock() }
func (p *Page) Unlock() { p.mu.Unlock() }

// Document 返回底层文档；调用方必须持有锁。
func (p *Page) Document() *goquery.Document { return p.doc }

// Find 在锁内执行选择器查询。返回的 Selection 之后的读写仍需持锁。
func (p *Page) Find(selector string) *goquery.Selection {
	p.Lock()
	defer p.Unlock()
	return p.doc.Find(selector)
}

// HTML 序列化整页。
func (p *Page) HTML() (string, error) {
	p.Lock()
	defer p.Unlock()
	return goquery.OuterHtml(p.doc.Selection)
}

// OuterHTML 序列化 s（在页面锁内进行）。
func (p *Page) OuterHTML(s *goquery.Selection) (string, error) {
	p.Lock()
	defer p.Unlock()
	return goquery.OuterHtml(s)
}

// Event 是一次指针事件：Target 是事件的原始目标元素。
type Event struct {
	Target *goquery.Selection
}
