package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneSlice(t *testing.T) {
	src := []byte{1, 2, 3}

	clone := CloneSlice(src, 0)
	assert.Equal(t, src, clone)

	clone[0] = 9
	assert.Equal(t, byte(1), src[0])

	longer := CloneSlice(src, 5)
	assert.Equal(t, []byte{1, 2, 3, 0, 0}, longer)

	shorter := CloneSlice(src, 2)
	assert.Equal(t, []byte{1, 2}, shorter)
}
