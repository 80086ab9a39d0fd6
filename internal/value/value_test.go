package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Nil().Truthy())
	assert.False(t, Boolean(false).Truthy())
	assert.True(t, Boolean(true).Truthy())
	assert.False(t, Number(0).Truthy())
	assert.True(t, Number(-1).Truthy())
	assert.True(t, Number(math.NaN()).Truthy())
	assert.False(t, String("").Truthy())
	assert.True(t, String("0").Truthy())
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "nil", Nil().String())
	assert.Equal(t, "true", Boolean(true).String())
	assert.Equal(t, "false", Boolean(false).String())
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "hi", String("hi").String())
}

func TestEqualsIsReflexiveAndCrossVariantFalse(t *testing.T) {
	assert.True(t, Nil().Equals(Nil()))
	assert.True(t, Number(1).Equals(Number(1)))
	assert.False(t, Number(1).Equals(Number(2)))
	assert.False(t, Number(0).Equals(Boolean(false)))
	assert.False(t, String("1").Equals(Number(1)))
	assert.True(t, String("a").Equals(String("a")))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "number", Number(1).TypeName())
	assert.Equal(t, "string", String("x").TypeName())
	assert.Equal(t, "boolean", Boolean(true).TypeName())
	assert.Equal(t, "nil", Nil().TypeName())
}
