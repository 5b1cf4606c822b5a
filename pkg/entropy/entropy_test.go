package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeakStaysInRange(t *testing.T) {
	src := Weak()
	for i := 0; i < 100; i++ {
		v := src.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}

func TestFixedReplaysValues(t *testing.T) {
	src := NewFixed(2, 0, 1)
	assert.Equal(t, 2, src.Intn(5))
	assert.Equal(t, 0, src.Intn(5))
	assert.Equal(t, 1, src.Intn(5))
	// Exhausted sources repeat the last value.
	assert.Equal(t, 1, src.Intn(5))
}

func TestFixedClampsToRange(t *testing.T) {
	src := NewFixed(9)
	assert.Equal(t, 2, src.Intn(3))
}

func TestFixedDefaultsToZero(t *testing.T) {
	src := NewFixed()
	assert.Equal(t, 0, src.Intn(3))
}
