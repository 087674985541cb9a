package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3))
	assert.Equal(t, 99.99, Round2(99.99))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 2.0, Round2(1.999))
	// 0.125 is exactly representable, so this pins the half-away-from-zero tie break.
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
}
