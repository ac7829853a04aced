package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStraightlined(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   bool
	}{
		{"all identical", []int{4, 4, 4, 4}, true},
		{"varied", []int{4, 4, 5, 4}, false},
		{"too short to flag", []int{4, 4}, false},
		{"empty", nil, false},
		{"minimum length identical", []int{1, 1, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Straightlined(tt.values))
		})
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 3.0, Mean([]int{1, 3, 5}))
	assert.Equal(t, 2.5, Mean([]int{2, 3}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]int{5}))
	assert.Equal(t, 0.0, StdDev([]int{3, 3, 3}))
	assert.InDelta(t, 2.0, StdDev([]int{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}
