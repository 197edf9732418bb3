package listing

// Page is one page of rows.
type Page[T any] struct {
	Items   []T
	Total   int
	Page    int
	Pages   int
	Limit   int
	HasPrev bool
	HasNext bool
}

// Paginate slices items for q.Page and q.Limit. A page past the end is
// clamped to the last page.
func Paginate[T any](items []T, q Query) Page[T] {
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	total := len(items)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return Page[T]{
		Items:   items[start:end],
		Total:   total,
		Page:    page,
		Pages:   pages,
		Limit:   limit,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}

// Prev and Next are the neighbouring page numbers.
func (p Page[T]) Prev() int { return p.Page - 1 }
func (p Page[T]) Next() int { return p.Page + 1 }
