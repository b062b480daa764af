package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           Params
		wantPage     int
		wantPageSize int
	}{
		{"defaults when unset", Params{}, 1, 10},
		{"keeps valid values", Params{Page: 3, RecordsPerPage: 20}, 3, 20},
		{"clamps to max", Params{Page: 2, RecordsPerPage: 51}, 2, 50},
		{"clamps large values", Params{Page: 1, RecordsPerPage: 10000}, 1, 50},
		{"exact max", Params{Page: 1, RecordsPerPage: 50}, 1, 50},
		{"negative size falls back to default", Params{Page: 1, RecordsPerPage: -5}, 1, 10},
		{"page zero is first page", Params{Page: 0, RecordsPerPage: 5}, 1, 5},
		{"negative page is first page", Params{Page: -4, RecordsPerPage: 5}, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.RecordsPerPage)
		})
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := Params{Page: 3, RecordsPerPage: 100}
	assert.Equal(t, uint(50), p.Limit())
	assert.Equal(t, uint(100), p.Offset())

	p = Params{Page: -1}
	assert.Equal(t, uint(10), p.Limit())
	assert.Equal(t, uint(0), p.Offset())

	// Huge pages saturate instead of wrapping
	p = New(1e18, 10)
	assert.Equal(t, math.MaxInt/10, p.Page)
	assert.Equal(t, uint(math.MaxInt/10-1)*10, p.Offset())
	assert.LessOrEqual(t, p.Offset(), uint(math.MaxInt))

	p = Params{Page: math.MaxInt, RecordsPerPage: 50}
	assert.LessOrEqual(t, p.Offset(), uint(math.MaxInt))
	assert.Greater(t, p.Offset(), uint(0))
}
