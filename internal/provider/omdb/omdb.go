package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/John-Robertt/peekrate/internal/domain"
	providerx "github.com/John-Robertt/peekrate/internal/provider"
)

const (
	defaultBaseURL = "https://www.omdbapi.com"

	// unknownRating 是 OMDb 对“有条目但无评分”的占位值。
	unknownRating = "N/A"

	// maxBody 限制响应体大小；正常的单条结果远小于该值。
	maxBody = 1 << 20
)

// ErrDecode 表示响应体不是合法 JSON（例如被网关替换成 HTML 错误页）。
var ErrDecode = errors.New("omdb: decode response")

// Provider 实现 OMDb 的按标题查询。
//
// 约束：
// - 每次 Lookup 只发一个 GET：/?t=<title>&apikey=<key>
// - APIKey 为空不做校验（前置条件）：请求会被远端拒绝并按瞬时失败处理
// - 不缓存、不重试（由 fetcher 统一控制）
type Provider struct {
	// BaseURL 允许替换服务地址（测试或自建镜像）；为空时使用 https://www.omdbapi.com。
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (Provider) Name() string { return "omdb" }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// Error 携带查询上下文（哪个标题、哪个阶段）。
type Error struct {
	Op    string // "request" / "decode"
	Title domain.Title
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("omdb %s [%s]: %v", e.Op, e.Title, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type response struct {
	Response   string `json:"Response"`
	IMDBRating string `json:"imdbRating"`
	Error      string `json:"Error"`
}

// Lookup 查询 title 的 IMDb 评分。
//
// 返回值：
// - 数字评分：Response=="True" 且 imdbRating 非空、不是 "N/A"
// - domain.NotFound：其余所有“远端有明确回答”的情况（包括字段缺失/格式不符）
// - err：网络错误、非 2xx、非 JSON
func (p Provider) Lookup(ctx context.Context, title domain.Title) (domain.Rating, error) {
	c := p.Client
	if c == nil {
		return "", errors.New("http client 不能为空")
	}

	u := p.lookupURL(title)
	body, err := fetchURL(ctx, c, u)
	if err != nil {
		return "", &Error{Op: "request", Title: title, Err: err}
	}
	return parse(title, body)
}

func (p Provider) lookupURL(title domain.Title) string {
	q := url.Values{}
	q.Set("t", string(title))
	q.Set("apikey", p.APIKey)
	return p.baseURL() + "/?" + q.Encode()
}

// parse 是纯函数：相同输入 => 相同输出。
func parse(title domain.Title, body []byte) (domain.Rating, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return "", &Error{Op: "decode", Title: title, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	rating := strings.TrimSpace(r.IMDBRating)
	if r.Response == "True" && rating != "" && rating != unknownRating {
		return domain.Rating(rating), nil
	}
	return domain.NotFound, nil
}

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		// *url.Error 的文本带完整 URL（含 apikey）。
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redactKey(ue.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providerx.HTTPStatusError{URL: redactKey(u), StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// redactKey 避免把凭据带进错误信息与日志。
func redactKey(u string) string {
	pu, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := pu.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		pu.RawQuery = q.Encode()
	}
	return pu.String()
}
