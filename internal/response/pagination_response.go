package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination describes the window [From, To] (1-based, inclusive) of a
// listing holding total items.
func NewPagination(page, pageSize int, total int64) *Pagination {
	if pageSize <= 0 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    int64(page) < totalPages,
	}

	offset := (page - 1) * pageSize
	if int64(offset) < total {
		p.From = offset + 1
		p.To = offset + pageSize
		if int64(p.To) > total {
			p.To = int(total)
		}
	}
	return p
}
