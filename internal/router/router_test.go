package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerMinuteClampsNonPositiveLimits(t *testing.T) {
	assert.Equal(t, uint(1), perMinute(-5))
	assert.Equal(t, uint(1), perMinute(0))
	assert.Equal(t, uint(1), perMinute(1))
	assert.Equal(t, uint(30), perMinute(30))
}
