package bindings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclebind/internal/values"
)

func TestParseSpecBareName(t *testing.T) {
	call, err := ParseSpec("Hash")
	require.NoError(t, err)
	assert.Equal(t, "Hash", call.Name)
	assert.Empty(t, call.Args)
}

func TestParseSpecNoArgs(t *testing.T) {
	call, err := ParseSpec("Hash()")
	require.NoError(t, err)
	assert.Equal(t, "Hash", call.Name)
	assert.Empty(t, call.Args)
}

func TestParseSpecTypedArgs(t *testing.T) {
	call, err := ParseSpec("Thing(8, 1.5, true, 'quoted, string', bare)")
	require.NoError(t, err)
	assert.Equal(t, "Thing", call.Name)
	require.Len(t, call.Args, 5)

	assert.Equal(t, values.KindInt, call.Args[0].Kind())
	assert.Equal(t, values.KindFloat, call.Args[1].Kind())
	assert.Equal(t, values.KindBool, call.Args[2].Kind())

	s, err := call.Args[3].AsString()
	require.NoError(t, err)
	assert.Equal(t, "quoted, string", s, "commas inside quotes must not split")

	s, err = call.Args[4].AsString()
	require.NoError(t, err)
	assert.Equal(t, "bare", s)
}

func TestParseSpecErrors(t *testing.T) {
	for _, spec := range []string{"", "  ", "Name(1", "1Bad()", "Has space()", "()"} {
		_, err := ParseSpec(spec)
		assert.ErrorIs(t, err, ErrBadSpec, "spec %q", spec)
	}
}
