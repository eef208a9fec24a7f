package domain

// NotFound 是“已查询、确认无评分”的哨兵值（负缓存条目）。
const NotFound Rating = "N/A"

// Rating 是一次评分查询的结果。
//
// 三种形态：
// - 数字字符串（例如 "8.4"）：查到评分
// - NotFound：远端明确没有评分
// - 空串：结果缺失（查询瞬时失败，不应写入缓存）
type Rating string

// Present 报告结果是否存在（非空）。NotFound 也算存在。
func (r Rating) Present() bool { return r != "" }

func (r Rating) IsNotFound() bool { return r == NotFound }

func (r Rating) String() string { return string(r) }
