//go:build !vlc

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_VLCWithoutBuildTag(t *testing.T) {
	e, err := New("vlc", Options{})

	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrVLCUnavailable)
}
