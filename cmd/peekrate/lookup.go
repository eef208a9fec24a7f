package main

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/peekrate/internal/domain"
	"github.com/John-Robertt/peekrate/internal/fetcher"
	"github.com/John-Robertt/peekrate/internal/infra/cache"
	"github.com/John-Robertt/peekrate/internal/infra/httpx"
	"github.com/John-Robertt/peekrate/internal/metrics"
	"github.com/John-Robertt/peekrate/internal/provider/omdb"
)

// lookupResult 是 lookup 的单条输出。Rating 为空表示查询失败。
type lookupResult struct {
	Title  domain.Title  `json:"title"`
	Rating domain.Rating `json:"rating"`
}

func newLookupCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>...",
		Short: "直接查询一个或多个标题的评分（同一进程内共享缓存）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, logger, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := httpx.NewClient(eff.ProxyURL)
			if err != nil {
				return fmt.Errorf("初始化 http client 失败：%w", err)
			}
			p := omdb.Provider{BaseURL: eff.BaseURL, APIKey: eff.APIKey, Client: c}
			f := fetcher.New(cache.New(), p, logger, metrics.New(prometheus.NewRegistry()))

			results := make([]lookupResult, 0, len(args))
			failed := 0
			for _, a := range args {
				r := f.Fetch(cmd.Context(), domain.Title(a))
				if !r.Present() {
					failed++
				}
				results = append(results, lookupResult{Title: domain.Title(a), Rating: r})
			}

			out := cmd.OutOrStdout()
			if isTTY(out) {
				for _, r := range results {
					rating := r.Rating.String()
					if rating == "" {
						rating = "-"
					}
					fmt.Fprintf(out, "%s\t%s\n", r.Title, rating)
				}
			} else {
				// stdout 非 TTY：只输出一个 JSON 数组。
				if err := json.NewEncoder(out).Encode(results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d 个标题查询失败", failed)
			}
			return nil
		},
	}
}
