package rules

import (
	"testing"
	"time"

	"go-chatmod/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsString(t *testing.T) {
	opts := Options{"name": "value"}

	s, err := opts.String("name", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	s, err = opts.String("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	_, err = Options{"name": 5.0}.String("name", "")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestOptionsRequireString(t *testing.T) {
	_, err := Options{}.RequireString("name")
	require.Error(t, err)

	_, err = Options{"name": ""}.RequireString("name")
	require.Error(t, err)
}

func TestOptionsInt(t *testing.T) {
	// JSON numbers decode as float64.
	n, err := Options{"count": float64(3)}.Int("count", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Options{}.Int("count", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestOptionsStringList(t *testing.T) {
	list, err := Options{"items": []interface{}{"a", "b"}}.StringList("items")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	list, err = Options{}.StringList("items")
	require.NoError(t, err)
	assert.Nil(t, list)

	_, err = Options{"items": []interface{}{"a", 2.0}}.StringList("items")
	require.Error(t, err)

	_, err = Options{"items": []interface{}{}}.RequireStringList("items")
	require.Error(t, err)
}

func TestOptionsMillis(t *testing.T) {
	d, err := Options{"delay": float64(1500)}.Millis("delay", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = Options{}.Millis("delay", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	_, err = Options{"delay": float64(-1)}.Millis("delay", 0)
	require.Error(t, err)
}

func TestOptionsOptionalDuration(t *testing.T) {
	d, err := Options{}.OptionalDuration("window")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = Options{"window": float64(90)}.OptionalDuration("window")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 90*time.Second, *d)

	d, err = Options{"window": "72h"}.OptionalDuration("window")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 72*time.Hour, *d)

	_, err = Options{"window": "soon"}.OptionalDuration("window")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}
