// pkg/pagination/pagination.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Semua list page staff pakai ukuran halaman tetap.
const ListPageSize = 5

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`      // jumlah item di halaman ini
	EmptyRows  int   `json:"empty_rows"` // padding baris kosong supaya tabel selalu 5 baris
}

// ResolvePaging membaca ?page= (halaman invalid → 1). per_page tidak bisa diubah client.
func ResolvePaging(c *fiber.Ctx) Paging {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if err != nil || page < 1 {
		page = 1
	}
	return Paging{
		Page:    page,
		PerPage: ListPageSize,
		Offset:  (page - 1) * ListPageSize,
		Limit:   ListPageSize,
	}
}

// ClampToLastPage: seperti Paginator.get_page, halaman di luar range jatuh ke halaman terakhir.
func (p Paging) ClampToLastPage(total int64) Paging {
	last := totalPages(total, p.PerPage)
	if p.Page > last {
		p.Page = last
		p.Offset = (last - 1) * p.PerPage
	}
	return p
}

func BuildPagination(total int64, p Paging, count int) Pagination {
	tp := totalPages(total, p.PerPage)
	empty := p.PerPage - count
	if empty < 0 {
		empty = 0
	}
	return Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: tp,
		HasNext:    p.Page < tp,
		HasPrev:    p.Page > 1,
		Count:      count,
		EmptyRows:  empty,
	}
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = ListPageSize
	}
	tp := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if tp == 0 {
		tp = 1
	}
	return tp
}
