package provider

import "fmt"

// HTTPStatusError 表示远端返回了非 2xx 的 HTTP 状态码。
// 典型来源：凭据无效（401）、配额耗尽、服务端故障。一律按瞬时失败处理。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
