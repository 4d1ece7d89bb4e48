package models

import (
	"strings"

	"gorm.io/gorm"
)

func Count(tx *gorm.DB) (int64, error) {
	var cnt int64
	err := tx.Count(&cnt).Error
	return cnt, err
}

func Insert(tx *gorm.DB, obj interface{}) error {
	return tx.Create(obj).Error
}

func Save(tx *gorm.DB, obj interface{}) error {
	return tx.Save(obj).Error
}

// Pageable 分页参数, PageSize 为 0 时不分页
type Pageable struct {
	PageNo   int       `json:"page"`
	PageSize int       `json:"page_size"`
	Sortable *Sortable `json:"sortable"`
}

// PageRequest 构建分页参数
func PageRequest(pageNo, pageSize int, sortField, sortOrder string) Pageable {
	if pageSize < 0 {
		pageSize = 0
	}
	// 不分页时只有一页
	if pageNo <= 0 || pageSize == 0 {
		pageNo = 1
	}
	return Pageable{
		PageNo:   pageNo,
		PageSize: pageSize,
		Sortable: &Sortable{SortField: sortField, SortOrder: sortOrder},
	}
}

// Paged reports whether a page size was requested.
func (pa *Pageable) Paged() bool {
	return pa != nil && pa.PageSize > 0
}

func (pa *Pageable) Offset() int {
	if pa.PageNo <= 0 {
		pa.PageNo = 1
	}
	if pa.PageSize <= 0 {
		return 0
	}
	return (pa.PageNo - 1) * pa.PageSize
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type Sortable struct {
	SortField string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// Sort 生成排序语句, 未在 allowed 中的字段回退到 fallback
func (sa *Sortable) Sort(allowed map[string]bool, fallback string) string {
	sortField := fallback
	sortOrder := SortDesc
	if sa != nil {
		if allowed[sa.SortField] {
			sortField = sa.SortField
		}
		if strings.ToLower(sa.SortOrder) == SortAsc {
			sortOrder = SortAsc
		}
	}
	return sortField + " " + sortOrder
}
