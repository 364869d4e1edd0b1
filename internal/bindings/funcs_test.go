package bindings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, spec string) Func {
	t.Helper()
	fn, err := Lookup(spec)
	require.NoError(t, err, "lookup %q", spec)
	return fn
}

func TestAlphaNumeric(t *testing.T) {
	fn := mustLookup(t, "AlphaNumeric(8)")

	first := fn(42).(string)
	assert.Len(t, first, 8)
	for _, ch := range first {
		assert.Contains(t, alphaNumericChars, string(ch))
	}

	assert.Equal(t, first, fn(42).(string), "same cycle must yield same value")
	assert.NotEqual(t, first, fn(43).(string), "adjacent cycles should differ")
}

func TestAlphaNumericRejectsBadLength(t *testing.T) {
	_, err := Lookup("AlphaNumeric(0)")
	assert.ErrorIs(t, err, ErrBadArgs)
	_, err = Lookup("AlphaNumeric(-3)")
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestHashIsNonNegativeAndDeterministic(t *testing.T) {
	fn := mustLookup(t, "Hash()")
	for _, cycle := range []int64{0, 1, -5, 1 << 40} {
		v := fn(cycle).(int64)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Equal(t, v, fn(cycle).(int64))
	}
}

func TestMod(t *testing.T) {
	fn := mustLookup(t, "Mod(10)")
	assert.Equal(t, int64(3), fn(13))
	assert.Equal(t, int64(0), fn(0))
	assert.Equal(t, int64(7), fn(-3), "negative cycles wrap into range")
}

func TestAdd(t *testing.T) {
	fn := mustLookup(t, "Add(100)")
	assert.Equal(t, int64(142), fn(42))
}

func TestFixedValue(t *testing.T) {
	fn := mustLookup(t, "FixedValue('ks1')")
	assert.Equal(t, "ks1", fn(0))
	assert.Equal(t, "ks1", fn(999))

	fn = mustLookup(t, "FixedValue(7)")
	assert.Equal(t, int64(7), fn(123))
}

func TestToString(t *testing.T) {
	fn := mustLookup(t, "ToString()")
	assert.Equal(t, "42", fn(42))
	assert.Equal(t, "-1", fn(-1))
}

func TestNumberNameToString(t *testing.T) {
	fn := mustLookup(t, "NumberNameToString()")

	tests := map[int64]string{
		0:       "zero",
		7:       "seven",
		13:      "thirteen",
		42:      "forty-two",
		100:     "one hundred",
		101:     "one hundred one",
		999:     "nine hundred ninety-nine",
		1000:    "one thousand",
		1234:    "one thousand two hundred thirty-four",
		1000000: "one million",
		2000003: "two million three",
		-15:     "negative fifteen",
	}
	for cycle, want := range tests {
		assert.Equal(t, want, fn(cycle), "cycle %d", cycle)
	}
}

func TestUniform(t *testing.T) {
	fn := mustLookup(t, "Uniform(10,20)")
	for cycle := int64(0); cycle < 200; cycle++ {
		v := fn(cycle).(int64)
		assert.GreaterOrEqual(t, v, int64(10))
		assert.Less(t, v, int64(20))
	}
	assert.Equal(t, fn(77), fn(77))

	_, err := Lookup("Uniform(5,5)")
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestWeightedStrings(t *testing.T) {
	fn := mustLookup(t, "WeightedStrings('a:3;b:1')")

	seen := map[string]int{}
	for cycle := int64(0); cycle < 1000; cycle++ {
		seen[fn(cycle).(string)]++
	}
	assert.Greater(t, seen["a"], seen["b"], "a carries three times b's weight")
	assert.Equal(t, 1000, seen["a"]+seen["b"])

	_, err := Lookup("WeightedStrings('')")
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestToUUID(t *testing.T) {
	fn := mustLookup(t, "ToUUID()")
	first := fn(42).(string)
	assert.Len(t, first, 36)
	assert.Equal(t, first, fn(42).(string))
	assert.NotEqual(t, first, fn(43).(string))
}
