package errcode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":             OK,
		"init_failed":    InitFailed,
		"not_ready":      NotReady,
		"invalid_params": InvalidParams,
		"unknown_reader": UnknownReader,
		"unknown_board":  UnknownBoard,
		"unknown_pin":    UnknownPin,
		"unknown_bus":    UnknownBus,
		"bus_error":      BusError,
		"unsupported":    Unsupported,
		"error":          Error,
	}
	for want, c := range cases {
		assert.Equal(t, want, c.Error())
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := errors.New("nack")
	err := Wrap(InitFailed, "tca8418.begin", cause)

	require.Error(t, err)
	assert.Equal(t, InitFailed, Of(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "tca8418.begin: init_failed: nack", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(BusError, "op", nil))
}

func TestOf(t *testing.T) {
	assert.Equal(t, OK, Of(nil))
	assert.Equal(t, UnknownPin, Of(UnknownPin))
	assert.Equal(t, Error, Of(errors.New("other")))
	assert.Equal(t, BusError, Of(&E{C: BusError, Msg: "short read"}))
}
