package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 10, Offset: 0}},
		{"page and limit", "?page=3&limit=5", Params{Page: 3, Limit: 5, Offset: 10}},
		{"zero page", "?page=0", Params{Page: 1, Limit: 10, Offset: 0}},
		{"negative limit", "?limit=-2", Params{Page: 1, Limit: 10, Offset: 0}},
		{"limit over max", "?limit=500", Params{Page: 1, Limit: 10, Offset: 0}},
		{"limit at max", "?page=2&limit=100", Params{Page: 2, Limit: 100, Offset: 100}},
		{"garbage", "?page=abc&limit=xyz", Params{Page: 1, Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/products"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name string
		p    Params
		want []int
	}{
		{"first page", Params{Page: 1, Limit: 3, Offset: 0}, []int{1, 2, 3}},
		{"last partial page", Params{Page: 3, Limit: 3, Offset: 6}, []int{7}},
		{"past the end", Params{Page: 4, Limit: 3, Offset: 9}, []int{}},
		{"exact fit", Params{Page: 1, Limit: 7, Offset: 0}, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slice(items, tt.p))
		})
	}
}
