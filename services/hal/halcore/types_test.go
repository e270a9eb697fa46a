package halcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeString(t *testing.T) {
	assert.Equal(t, "rising", EdgeRising.String())
	assert.Equal(t, "falling", EdgeFalling.String())
	assert.Equal(t, "both", EdgeBoth.String())
	assert.Equal(t, "none", EdgeNone.String())
	assert.Equal(t, "none", Edge(42).String())
}

func TestParsePull(t *testing.T) {
	assert.Equal(t, PullUp, ParsePull("up"))
	assert.Equal(t, PullDown, ParsePull("down"))
	assert.Equal(t, PullNone, ParsePull("none"))
	assert.Equal(t, PullNone, ParsePull(""))
}
