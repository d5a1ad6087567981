package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv_KeyValue(t *testing.T) {
	t.Setenv("xyz", "abc")

	result := getEnv("xyz", "development")

	expected := "abc"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development") = %q; expected: %q`, result, expected)
}

func TestGetEnv_FallbackValue(t *testing.T) {
	t.Setenv("xyz", "")

	result := getEnv("xyz", "development")

	expected := "development"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development") = %q; expected: %q`, result, expected)
}

func TestSetFromEnv_ParsesTypes(t *testing.T) {
	t.Setenv("TEST_STR", "hello")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_INT", "42")

	var s string
	var b bool
	var i int

	require.NoError(t, setFromEnv(&s, "TEST_STR"))
	require.NoError(t, setFromEnv(&b, "TEST_BOOL"))
	require.NoError(t, setFromEnv(&i, "TEST_INT"))

	assert.Equal(t, "hello", s)
	assert.True(t, b)
	assert.Equal(t, 42, i)
}

func TestSetFromEnv_BadInt(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")

	var i int
	err := setFromEnv(&i, "TEST_INT")

	require.Error(t, err)
}

func TestIsProd(t *testing.T) {
	cfg := NewConfig(WithEnvironment("production"))
	assert.True(t, cfg.IsProd())

	cfg = NewConfig(WithEnvironment("development"))
	assert.False(t, cfg.IsProd())

	var nilCfg *Config
	assert.False(t, nilCfg.IsProd())
}
