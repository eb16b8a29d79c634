package content

// Page is one slice of a listing plus its pagination metadata.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// NewPage builds the page object. Pages past the end carry an empty slice and
// from/to of zero; last_page is never below 1.
func NewPage[T any](items []T, total int64, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if perPage < 1 {
		perPage = 1
	}
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	p := Page[T]{
		Data:        items,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	if len(items) > 0 {
		p.From = (page-1)*perPage + 1
		p.To = p.From + len(items) - 1
	}
	return p
}
