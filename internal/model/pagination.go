package model

// Pagination is the metadata attached to every paginated list.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// MaxPerPage is the hard cap on page size; larger requests are clamped.
const MaxPerPage = 100

// NormalizePage clamps page and perPage into their valid ranges.
// page < 1 becomes 1; perPage < 1 falls back to def; perPage > MaxPerPage is
// clamped to MaxPerPage.
func NormalizePage(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// NewPagination computes the page metadata for a total result count.
// A page past the end simply yields has_next=false; it is not an error.
func NewPagination(page, perPage, total int) Pagination {
	totalPages := (total + perPage - 1) / perPage
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset converts page/perPage into the SQL offset.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}
