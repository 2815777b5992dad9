package pagination

import (
	"strconv"

	"gorm.io/gorm"
)

// Params 归一化后的分页参数，Page 从 1 开始
type Params struct {
	Page     int
	PageSize int
	Offset   int
}

// New 归一化页码与页大小：page<1 视为 1，pageSize<1 取 fallback
func New(page, pageSize, fallback int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = fallback
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return Params{Page: page, PageSize: pageSize, Offset: (page - 1) * pageSize}
}

// ParsePage 解析 ?page= 参数，非法值回退为第 1 页
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Window gorm scope，追加 OFFSET/LIMIT：db.Scopes(pagination.Window(offset, limit))
func Window(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// Page 一页结果。超出末页时 Items 为空而非报错
type Page[T any] struct {
	Items       []T   `json:"results"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"count"`
	TotalPages  int   `json:"num_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

func NewPage[T any](items []T, p Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return &Page[T]{
		Items:       items,
		Page:        p.Page,
		PageSize:    p.PageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrevious: p.Page > 1,
	}
}

// Map 转换元素类型，分页信息保持不变
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return &Page[U]{
		Items:       out,
		Page:        p.Page,
		PageSize:    p.PageSize,
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}
