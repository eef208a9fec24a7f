package domain

// Title 是卡片上展示的作品名称（从 DOM 属性原样读取）。
//
// 约束：不做任何规范化（大小写/空白/年份后缀保持原样）；它同时是缓存键与远端查询词。
type Title string

// Empty 报告 Title 是否为空串（空 Title 不参与缓存与查询）。
func (t Title) Empty() bool { return t == "" }
