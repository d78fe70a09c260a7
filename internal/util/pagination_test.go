package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name                    string
		page, size              int
		wantPage, wantOff, want int
	}{
		{"defaults", 0, 0, 1, 0, DefaultPageSize},
		{"second page", 2, 10, 2, 10, 10},
		{"size capped", 3, 1000, 3, 200, MaxPageSize},
		{"negative page", -4, 5, 1, 0, 5},
		{"huge page clamped", math.MaxInt, MaxPageSize, MaxPage, (MaxPage - 1) * MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantOff, off)
			assert.Equal(t, tt.want, lim)
		})
	}
}

func TestCalculate_OffsetNeverNegative(t *testing.T) {
	for _, size := range []int{1, DefaultPageSize, MaxPageSize, 1000} {
		_, off, lim := Calculate(math.MaxInt, size)
		assert.GreaterOrEqual(t, off, 0)
		assert.GreaterOrEqual(t, off+lim, off)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(0, 20))
	assert.EqualValues(t, 1, TotalPages(20, 20))
	assert.EqualValues(t, 2, TotalPages(21, 20))
	assert.EqualValues(t, 0, TotalPages(5, 0))
}
