package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOf(t *testing.T) {
	m := MapOf("b", 1, 3, "x", "a", nil)
	assert.Equal(t, []Pair{{"b", 1}, {3, "x"}, {"a", nil}}, Pairs(m))
	assert.Equal(t, map[any]any{"b": 1, 3: "x", "a": nil}, ToGoMap(m))
	assert.Nil(t, Pairs(nil))

	assert.Panics(t, func() { MapOf("odd") })
}

func TestAsMap(t *testing.T) {
	t.Run("go maps are sorted", func(t *testing.T) {
		m, ok := AsMap(map[any]any{"b": 1, 2: 2, "a": 3, 1.5: 4, true: 5})
		require.True(t, ok)
		keys := make([]any, 0, m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			keys = append(keys, p.Key)
		}
		assert.Equal(t, []any{true, 1.5, 2, "a", "b"}, keys)
	})

	t.Run("ordered maps pass through", func(t *testing.T) {
		in := MapOf("z", 1, "a", 2)
		m, ok := AsMap(in)
		require.True(t, ok)
		assert.Same(t, in, m)
	})

	t.Run("non-mappings", func(t *testing.T) {
		for _, v := range []any{nil, "ab", []any{1}, (map[string]int)(nil), (*Map)(nil)} {
			_, ok := AsMap(v)
			assert.False(t, ok, "%#v", v)
			assert.False(t, IsMap(v), "%#v", v)
		}
	})
}

func TestElements(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
		ok   bool
	}{
		{"list", []any{1, "a"}, []any{1, "a"}, true},
		{"tuple", Tuple{1, 2}, []any{1, 2}, true},
		{"typed slice", []int{1, 2}, []any{1, 2}, true},
		{"array", [2]string{"a", "b"}, []any{"a", "b"}, true},
		{"mapping keys", map[string]int{"b": 1, "a": 2}, []any{"a", "b"}, true},
		{"text", "ab", nil, false},
		{"nil", nil, nil, false},
		{"stringer", Path("/tmp"), nil, false},
		{"time", time.Time{}, nil, false},
		{"scalar", 5, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Elements(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsHashable(t *testing.T) {
	assert.True(t, IsHashable(nil))
	assert.True(t, IsHashable("a"))
	assert.True(t, IsHashable(3))
	assert.True(t, IsHashable([2]int{1, 2}))
	assert.False(t, IsHashable([]any{1}))
	assert.False(t, IsHashable(Tuple{1}))
	assert.False(t, IsHashable(map[string]int{}))
}

func TestPath(t *testing.T) {
	p := Path("/path/test")
	assert.Equal(t, "/path/test", p.AsPosix())
	assert.Equal(t, "/path/test", p.String())
}
