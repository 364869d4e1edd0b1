package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclebind/internal/activity"
	"cyclebind/internal/template"
)

// tieredCommand defines "ks" simultaneously as a static field, an op
// param, and an activity config value, plus "seq" as a dynamic field.
func tieredCommand(t *testing.T) *CompiledCommand {
	t.Helper()
	fm := template.NewFieldMap()
	fm.Set("ks", "from-field")
	fm.Set("seq", "{seq}")
	op := template.NewOpTemplate("tiered", fm,
		map[string]string{"seq": "Mod(100)"},
		map[string]any{"ks": "from-params", "ratio": 3})

	acfg := activity.NewConfig(map[string]any{
		"ks":      "from-activity",
		"ratio":   9,
		"threads": 16,
	})

	c, err := Compile(op, acfg)
	require.NoError(t, err)
	return c
}

func TestStaticConfigPrecedence(t *testing.T) {
	c := tieredCommand(t)

	got, err := StaticConfigOr(c, "ks", "def")
	require.NoError(t, err)
	assert.Equal(t, "from-field", got, "static field wins over params and activity config")

	n, err := StaticConfigOr(c, "ratio", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "op params win over activity config")

	threads, err := StaticConfigOr(c, "threads", 1)
	require.NoError(t, err)
	assert.Equal(t, 16, threads, "activity config is the last tier before the default")

	missing, err := StaticConfigOr(c, "nope", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, missing)
}

func TestStaticConfigLooksUpRequestedName(t *testing.T) {
	// The activity tier must be indexed by the requested parameter
	// name, never by any fixed key.
	fm := template.NewFieldMap()
	fm.Set("other", 1)
	op := template.NewOpTemplate("op", fm, nil, nil)
	acfg := activity.NewConfig(map[string]any{
		"name":    "wrong-answer",
		"threads": 8,
	})
	c, err := Compile(op, acfg)
	require.NoError(t, err)

	threads, err := StaticConfigOr(c, "threads", 0)
	require.NoError(t, err)
	assert.Equal(t, 8, threads)
}

func TestStaticConfigRejectsDynamicField(t *testing.T) {
	c := tieredCommand(t)

	_, err := StaticConfigOr(c, "seq", int64(0))
	require.Error(t, err)
	var sde *StrictDynamicFieldError
	require.True(t, errors.As(err, &sde))
	assert.Equal(t, "seq", sde.Field)
	assert.Equal(t, "tiered", sde.Op)
}

func TestConfigOrToleratesDynamicField(t *testing.T) {
	c := tieredCommand(t)

	assert.Equal(t, int64(13), ConfigOr(c, "seq", int64(-1), 13),
		"cycle-aware lookup evaluates the dynamic field at the cycle")
	assert.Equal(t, "from-field", ConfigOr(c, "ks", "def", 0),
		"static tier still wins in cycle-aware mode")
	assert.Equal(t, 3, ConfigOr(c, "ratio", 0, 0))
	assert.Equal(t, 16, ConfigOr(c, "threads", 0, 0))
	assert.Equal(t, -7, ConfigOr(c, "gone", -7, 0))
}

func TestOptionalStaticConfig(t *testing.T) {
	c := tieredCommand(t)

	got, ok, err := OptionalStaticConfig[string](c, "ks")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-field", got)

	_, ok, err = OptionalStaticConfig[string](c, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = OptionalStaticConfig[int](c, "ks")
	assert.Error(t, err, "strict call sites surface coercion failures")

	_, _, err = OptionalStaticConfig[string](c, "seq")
	var sde *StrictDynamicFieldError
	assert.True(t, errors.As(err, &sde))
}

func TestStaticFieldOr(t *testing.T) {
	c := tieredCommand(t)

	got, err := StaticFieldOr(c, "ks", "def")
	require.NoError(t, err)
	assert.Equal(t, "from-field", got)

	got, err = StaticFieldOr(c, "ratio", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", got, "params are not consulted for plain field access")

	_, err = StaticFieldOr(c, "seq", "def")
	assert.Error(t, err)
}

func TestRequireStaticFields(t *testing.T) {
	c := tieredCommand(t)

	require.NoError(t, c.RequireStaticFields("ks"))

	err := c.RequireStaticFields("ks", "seq", "gone")
	require.Error(t, err)
	var msf *MissingStaticFieldsError
	require.True(t, errors.As(err, &msf))
	assert.ElementsMatch(t, []string{"seq", "gone"}, msf.Missing,
		"the full missing subset is reported, not just the first")
}

func TestRequireStaticFieldsDynamicOnly(t *testing.T) {
	c := tieredCommand(t)

	err := c.RequireStaticFields("ks", "seq")
	require.Error(t, err)
	var msf *MissingStaticFieldsError
	require.True(t, errors.As(err, &msf))
	assert.Equal(t, []string{"seq"}, msf.Missing)
}

func TestIsDefinedAll(t *testing.T) {
	c := tieredCommand(t)

	assert.True(t, c.IsDefinedAll("ks", "seq"))
	assert.False(t, c.IsDefinedAll("ks", "seq", "gone"))
	assert.True(t, c.IsDefinedStaticAll("ks"))
	assert.False(t, c.IsDefinedStaticAll("ks", "seq"))
	assert.True(t, c.IsUndefined("gone"))
	assert.False(t, c.IsUndefined("seq"))
}
