package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name          string
		number, limit int
		want          Page
	}{
		{name: "defaults", number: 0, limit: 0, want: Page{Number: 1, Limit: DefaultPageLimit}},
		{name: "negative", number: -3, limit: -1, want: Page{Number: 1, Limit: DefaultPageLimit}},
		{name: "capped limit", number: 2, limit: 1000, want: Page{Number: 2, Limit: MaxPageLimit}},
		{name: "as is", number: 3, limit: 25, want: Page{Number: 3, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.number, tt.limit))
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
		offset   int
	}{
		{
			name:     "first page of many",
			page:     NewPage(1, 10),
			total:    25,
			wantNext: &PageRef{Page: 2, Limit: 10},
			offset:   0,
		},
		{
			name:     "middle page",
			page:     NewPage(2, 10),
			total:    25,
			wantNext: &PageRef{Page: 3, Limit: 10},
			wantPrev: &PageRef{Page: 1, Limit: 10},
			offset:   10,
		},
		{
			name:     "last partial page",
			page:     NewPage(3, 10),
			total:    25,
			wantPrev: &PageRef{Page: 2, Limit: 10},
			offset:   20,
		},
		{
			name:   "exact fit",
			page:   NewPage(1, 10),
			total:  10,
			offset: 0,
		},
		{
			name:   "empty",
			page:   NewPage(1, 10),
			total:  0,
			offset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := NewPagination(tt.page, tt.total)
			assert.Equal(t, tt.wantNext, pg.Next)
			assert.Equal(t, tt.wantPrev, pg.Prev)
			assert.Equal(t, tt.offset, tt.page.Offset())
		})
	}
}
