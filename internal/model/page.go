package model

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page задаёт номер страницы и её размер.
type Page struct {
	Number int
	Limit  int
}

// NewPage нормализует параметры постраничной выборки.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset возвращает количество пропускаемых записей.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageRef ссылается на соседнюю страницу.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination описывает ссылки на следующую и предыдущую страницы.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// NewPagination строит ссылки на соседние страницы для выборки из total записей.
func NewPagination(p Page, total int64) Pagination {
	var pg Pagination
	if int64(p.Number*p.Limit) < total {
		pg.Next = &PageRef{Page: p.Number + 1, Limit: p.Limit}
	}
	if p.Offset() > 0 {
		pg.Prev = &PageRef{Page: p.Number - 1, Limit: p.Limit}
	}
	return pg
}

// List содержит одну страницу результатов выборки.
type List[T any] struct {
	Items      []T
	Total      int64
	Pagination Pagination
}
