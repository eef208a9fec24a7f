package provider

import (
	"context"

	"github.com/John-Robertt/peekrate/internal/domain"
)

// Provider 把“远端评分服务的差异”限制在 provider 包内部；核心流程只依赖统一接口。
//
// 约束：
// - Lookup 不做缓存、不做重试（缓存由 fetcher 统一实现；重试由“下次悬停”自然发生）
// - 返回 err==nil 时，Rating 必须是确定结果：数字评分或 domain.NotFound
// - 返回 err!=nil 表示瞬时失败（网络/解析/非 2xx），调用方不得缓存
type Provider interface {
	Name() string
	Lookup(ctx context.Context, title domain.Title) (domain.Rating, error)
}
