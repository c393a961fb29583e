package companyimport

// PageSize is shared by the record preview and the submission results.
const PageSize = 50

type Page[T any] struct {
	Items     []T `json:"items"`
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total"`
}

// PageCount is the number of pages needed for total items, at least one.
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ClampPage moves page into [1, PageCount(total)].
func ClampPage(total, page int) int {
	last := PageCount(total)
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Paginate returns the requested page of items, clamping out-of-range pages.
func Paginate[T any](items []T, page int) Page[T] {
	total := len(items)
	page = ClampPage(total, page)

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)

	pageItems := items[start:end]
	if pageItems == nil {
		pageItems = []T{}
	}

	return Page[T]{
		Items:     pageItems,
		Page:      page,
		PageCount: PageCount(total),
		PageSize:  PageSize,
		Total:     total,
	}
}
