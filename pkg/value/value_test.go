package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePreservesMemberOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zeta":1,"alpha":{"b":true,"a":null},"mid":[1,"two",3.5]}`))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, alpha.Keys())

	mid, ok := v.Get("mid")
	require.True(t, ok)
	require.Equal(t, 3, mid.Len())
	n, ok := mid.Items()[2].NumberText()
	require.True(t, ok)
	assert.Equal(t, "3.5", n)
}

func TestDecodeDuplicateKeysKeepFirstPosition(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, _ := v.Get("a")
	assert.Equal(t, "3", a.Scalar())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated object", input: `{"a":`},
		{name: "trailing value", input: `{} {}`},
		{name: "bare word", input: `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	input := `{"b":[1,2,{"c":"x\"y"}],"a":null,"t":true}`
	v, err := Decode([]byte(input))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	again, err := Decode(out)
	require.NoError(t, err)
	assert.True(t, Equal(v, again))
}

func TestMarshalIndent(t *testing.T) {
	v := Object(M("a", Int(1)), M("b", Array(Bool(false))))
	out, err := MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    false\n  ]\n}", string(out))
}

func TestMarshalDetectsCycle(t *testing.T) {
	obj := Object(M("name", String("loop")))
	obj.Set("self", obj)
	_, err := obj.MarshalJSON()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestFromInterfaceSortsMapKeys(t *testing.T) {
	v := FromInterface(map[string]any{
		"b": []any{1, "x"},
		"a": map[string]any{"z": 1.5, "y": nil},
	})
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, _ := v.Get("a")
	assert.Equal(t, []string{"y", "z"}, a.Keys())

	type opaque struct{ N int }
	assert.Equal(t, KindRaw, FromInterface(opaque{N: 1}).Kind())
}

func TestToInterface(t *testing.T) {
	v := Object(M("n", Int(3)), M("f", Number("2.5")), M("s", String("x")), M("l", Array(Null())))
	got := ToInterface(v)
	assert.Equal(t, map[string]any{
		"n": int64(3),
		"f": 2.5,
		"s": "x",
		"l": []any{nil},
	}, got)
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	assert.True(t, v.IsNull())
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, "null", v.Scalar())
	assert.Nil(t, v.Members())
}

func TestEqual(t *testing.T) {
	a := Object(M("x", Array(Int(1), String("y"))))
	b := Object(M("x", Array(Int(1), String("y"))))
	c := Object(M("x", Array(Int(1), String("z"))))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(Object(M("a", Null()), M("b", Null())), Object(M("b", Null()), M("a", Null()))))
}
