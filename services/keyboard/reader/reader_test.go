package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"kbdcore-go/errcode"
	"kbdcore-go/types"
)

type busFactory map[string]drivers.I2C

func (f busFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f[id]
	return b, ok
}

func TestNullReader(t *testing.T) {
	var r Null
	require.NoError(t, r.Begin())
	buf := []types.Point{{X: 1, Y: 1}}
	assert.Empty(t, r.UpdateKeyList(buf))
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(types.ReaderSetup{Type: "ps2"}, Resources{}, nil)
	require.Error(t, err)
	assert.Equal(t, errcode.UnknownReader, errcode.Of(err))
}

func TestBuildRejectsWrongParams(t *testing.T) {
	_, err := Build(types.ReaderSetup{Type: "iomatrix", Params: TCA8418Params{}}, Resources{}, nil)
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))

	_, err = Build(types.ReaderSetup{Type: "tca8418", Params: IOMatrixParams{}}, Resources{}, nil)
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestRegisterBuilderDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { RegisterBuilder("iomatrix", iomatrixBuilder{}) })
}
