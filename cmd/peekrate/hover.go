package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/peekrate/internal/app/session"
	"github.com/John-Robertt/peekrate/internal/badge"
	"github.com/John-Robertt/peekrate/internal/dom"
	"github.com/John-Robertt/peekrate/internal/domain"
	"github.com/John-Robertt/peekrate/internal/infra/fsx"
)

// hoverResult 是一次回放悬停后的卡片状态。
type hoverResult struct {
	Index  int           `json:"index"`
	Title  domain.Title  `json:"title"`
	Rating domain.Rating `json:"rating"`
	Badge  bool          `json:"badge"`
	HTML   string        `json:"html,omitempty"`
}

func newHoverCmd(load loadFunc) *cobra.Command {
	var (
		card int
		all  bool
		out  string
	)
	cmd := &cobra.Command{
		Use:   "hover <page.html>",
		Short: "加载本地页面，回放对卡片的悬停，输出挂上角标后的卡片",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, logger, err := load(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("打开页面失败：%w", err)
			}
			page, err := dom.Load(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("解析页面失败：%w", err)
			}

			s, err := session.New(eff, page, session.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer s.Close()

			cards := page.Find(eff.Selectors.Card)
			n := cards.Length()
			if n == 0 {
				return fmt.Errorf("页面中没有匹配 %q 的卡片", eff.Selectors.Card)
			}

			var idx []int
			if all {
				for i := 0; i < n; i++ {
					idx = append(idx, i)
				}
			} else {
				if card < 0 || card >= n {
					return fmt.Errorf("--card 超出范围：%d（共 %d 张卡片）", card, n)
				}
				idx = []int{card}
			}

			loc := dom.NewLocator(eff.Selectors)
			results := make([]hoverResult, 0, len(idx))
			for _, i := range idx {
				results = append(results, replay(s, loc, cards.Eq(i), i, !all))
			}
			if out != "" {
				h, err := page.HTML()
				if err != nil {
					return fmt.Errorf("序列化页面失败：%w", err)
				}
				if err := fsx.WriteFileAtomic(out, []byte(h)); err != nil {
					return fmt.Errorf("写入 %s 失败：%w", out, err)
				}
			}
			return emitHover(cmd, results)
		},
	}
	cmd.Flags().IntVar(&card, "card", 0, "回放第几张卡片（从 0 开始）")
	cmd.Flags().BoolVar(&all, "all", false, "依次回放所有卡片（只输出标题与评分）")
	cmd.Flags().StringVar(&out, "out", "", "把回放后的整页 HTML 写入该文件")
	return cmd
}

// replay 对 c 派发一次进入事件并等待处理完成；withHTML 时附带卡片 HTML。
// 回放多张卡片时，每张卡片处理完后派发离开事件，模拟指针移走。
func replay(s *session.Session, loc dom.Locator, c *goquery.Selection, i int, withHTML bool) hoverResult {
	s.Page.Lock()
	title, _ := loc.TitleOf(c)
	// 事件目标取卡片内的标题元素（与真实悬停一致：目标通常是卡片的后代）。
	target := c.Find("[" + loc.Selectors().TitleAttr + "]").First()
	if target.Length() == 0 {
		target = c
	}
	s.Page.Unlock()

	h := s.Handler()
	h.OnEnter(dom.Event{Target: target})
	s.Wait()

	res := hoverResult{Index: i, Title: title}
	if r, ok := s.Cache.Get(title); ok {
		res.Rating = r
	}

	s.Page.Lock()
	b := c.ChildrenFiltered("." + badge.Class)
	res.Badge = b.Length() > 0
	if withHTML {
		res.HTML, _ = goquery.OuterHtml(c)
	}
	s.Page.Unlock()

	if !withHTML {
		h.OnLeave(dom.Event{Target: target})
	}
	return res
}

func emitHover(cmd *cobra.Command, results []hoverResult) error {
	out := cmd.OutOrStdout()
	if !isTTY(out) {
		return json.NewEncoder(out).Encode(results)
	}
	for _, r := range results {
		rating := r.Rating.String()
		if rating == "" {
			rating = "-"
		}
		fmt.Fprintf(out, "#%d %s\t%s\n", r.Index, r.Title, rating)
		if r.HTML != "" {
			fmt.Fprintln(out, r.HTML)
		}
	}
	return nil
}
