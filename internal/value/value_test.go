package value_test

import (
	"testing"

	"github.com/rickyang/rick/internal/types"
	"github.com/rickyang/rick/internal/value"
	"github.com/stretchr/testify/require"
)

func TestBinaryIntegerArithmetic(t *testing.T) {
	v, err := value.Binary(value.Add, value.Integer(2), value.Integer(3))
	require.NoError(t, err)
	require.Equal(t, int32(5), v.Int())

	v, err = value.Binary(value.Mul, value.Integer(6), value.Integer(7))
	require.NoError(t, err)
	require.Equal(t, int32(42), v.Int())

	v, err = value.Binary(value.Pow, value.Integer(2), value.Integer(10))
	require.NoError(t, err)
	require.Equal(t, int32(1024), v.Int())
}

func TestBinaryIntegerDivisionByZeroErrors(t *testing.T) {
	_, err := value.Binary(value.Div, value.Integer(1), value.Integer(0))
	require.Error(t, err)

	_, err = value.Binary(value.Mod, value.Integer(1), value.Integer(0))
	require.Error(t, err)
}

func TestBinaryStringConcat(t *testing.T) {
	v, err := value.Binary(value.Add, value.String("foo"), value.String("bar"))
	require.NoError(t, err)
	require.Equal(t, "foobar", v.Str())
}

func TestBinaryStringSubtractUnsupported(t *testing.T) {
	_, err := value.Binary(value.Sub, value.String("foo"), value.String("bar"))
	require.Error(t, err)
}

func TestBinaryMismatchedKinds(t *testing.T) {
	_, err := value.Binary(value.Add, value.Integer(1), value.String("x"))
	require.Error(t, err)
}

func TestNegateAndNot(t *testing.T) {
	v, err := value.Negate(value.Integer(5))
	require.NoError(t, err)
	require.Equal(t, int32(-5), v.Int())

	v, err = value.Not(value.Boolean(true))
	require.NoError(t, err)
	require.False(t, v.Bool())

	_, err = value.Not(value.Integer(1))
	require.Error(t, err)
}

func TestArrayElemAndSetElem(t *testing.T) {
	a := value.Array(3)
	require.Equal(t, int32(3), a.Len())
	a.SetElem(1, value.Integer(42))
	require.Equal(t, int32(42), a.Elem(1).Int())
	require.Equal(t, value.NoneKind, a.Elem(0).Kind())
}

func TestCloneDuplicatesArrayBackingSlice(t *testing.T) {
	a := value.Array(2)
	a.SetElem(0, value.Integer(1))
	b := a.Clone()
	b.SetElem(0, value.Integer(99))
	require.Equal(t, int32(1), a.Elem(0).Int(), "mutating the clone must not affect the original")

	require.Equal(t, int32(5), value.Integer(5).Clone().Int(), "cloning a scalar is a no-op copy")
}

func TestTypeCode(t *testing.T) {
	require.Equal(t, types.IntegerBit, value.Integer(1).TypeCode())
	require.Equal(t, types.StringBit, value.String("x").TypeCode())
	arr := value.ArrayOf([]value.Value{value.Integer(1)})
	require.Equal(t, types.IntegerBit|types.ArrayBit, arr.TypeCode())
}

func TestStringDisplayForm(t *testing.T) {
	require.Equal(t, "5", value.Integer(5).String())
	require.Equal(t, "true", value.Boolean(true).String())
	require.Equal(t, "hi", value.String("hi").String())
	arr := value.ArrayOf([]value.Value{value.Integer(1), value.Integer(2)})
	require.Equal(t, "[1, 2]", arr.String())
}

func TestTruthy(t *testing.T) {
	require.True(t, value.Boolean(true).Truthy())
	require.False(t, value.Boolean(false).Truthy())
	require.True(t, value.Integer(1).Truthy())
	require.False(t, value.Integer(0).Truthy())
}

func TestParseInto(t *testing.T) {
	v, err := value.ParseInto("true", types.BooleanBit)
	require.NoError(t, err)
	require.True(t, v.Bool())

	_, err = value.ParseInto("maybe", types.BooleanBit)
	require.Error(t, err)

	v, err = value.ParseInto("42", types.IntegerBit)
	require.NoError(t, err)
	require.Equal(t, int32(42), v.Int())

	v, err = value.ParseInto("3.5", types.FloatBit)
	require.NoError(t, err)
	require.InDelta(t, 3.5, v.Float32(), 0.0001)

	v, err = value.ParseInto("hello", types.StringBit)
	require.NoError(t, err)
	require.Equal(t, "hello", v.Str())
}
