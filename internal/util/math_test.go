package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCoerce(t *testing.T) {
	assert.Equal(t, 5, Coerce(5, 0, 10))
	assert.Equal(t, 0, Coerce(-3, 0, 10))
	assert.Equal(t, 10, Coerce(11, 0, 10))
	assert.Equal(t, 1.5, Coerce(2.5, -1.5, 1.5))
}

func TestClampAwayFromZero(t *testing.T) {
	// GIVEN
	epsilon := 1e-3

	// THEN
	assert.Equal(t, epsilon, ClampAwayFromZero(0, epsilon))
	assert.Equal(t, epsilon, ClampAwayFromZero(1e-9, epsilon))
	assert.Equal(t, -epsilon, ClampAwayFromZero(-1e-9, epsilon))
	assert.Equal(t, 30.0, ClampAwayFromZero(30, epsilon))
	assert.Equal(t, -0.5, ClampAwayFromZero(-0.5, epsilon))
}
