package coerce

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

type station struct {
	Name      string   `json:"name"`
	Elevation float64  `json:"elevation"`
	Tags      []string `json:"tags"`
}

func TestInto(t *testing.T) {
	e := newTestEngine()

	t.Run("typed slice", func(t *testing.T) {
		out, err := Into[[]int](e, "1, 2, 3")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, out)
	})

	t.Run("typed map", func(t *testing.T) {
		out, err := Into[map[string]float64](e, `{"a": 1, "b": "2.5"}`)
		require.NoError(t, err)
		if diff := cmp.Diff(map[string]float64{"a": 1, "b": 2.5}, out); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("array", func(t *testing.T) {
		out, err := Into[[2]string](e, []any{1, 2})
		require.NoError(t, err)
		assert.Equal(t, [2]string{"1", "2"}, out)

		_, err = Into[[2]string](e, []any{1, 2, 3})
		assert.ErrorIs(t, err, ErrArityMismatch)
	})

	t.Run("sized integers and pointers", func(t *testing.T) {
		n, err := Into[int8](e, "7")
		require.NoError(t, err)
		assert.Equal(t, int8(7), n)

		p, err := Into[*int](e, 4.9)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 4, *p)
	})

	t.Run("named scalar", func(t *testing.T) {
		out, err := Into[celsius](e, "21.5")
		require.NoError(t, err)
		assert.Equal(t, celsius(21.5), out)
	})

	t.Run("struct from mapping", func(t *testing.T) {
		in := map[string]any{"name": "summit", "elevation": 1200.5, "tags": []any{"a", "b"}}
		out, err := Into[station](e, in)
		require.NoError(t, err)
		if diff := cmp.Diff(station{Name: "summit", Elevation: 1200.5, Tags: []string{"a", "b"}}, out); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}

		_, err = Into[station](e, 5)
		assert.ErrorIs(t, err, ErrUnsupportedCast)
	})

	t.Run("text unmarshaler", func(t *testing.T) {
		addr, err := Into[netip.Addr](e, "192.0.2.1")
		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("192.0.2.1"), addr)

		_, err = Into[netip.Addr](e, "nope")
		require.Error(t, err)
		var ce *Error
		assert.False(t, errors.As(err, &ce), "constructor errors are not wrapped")
	})

	t.Run("element failure", func(t *testing.T) {
		_, err := Into[[]int](e, "1, x")
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestCoerceInto_NeedsPointer(t *testing.T) {
	e := newTestEngine()

	var n int
	assert.Error(t, e.CoerceInto("1", n))
	assert.Error(t, e.CoerceInto("1", (*int)(nil)))

	require.NoError(t, e.CoerceInto("12", &n))
	assert.Equal(t, 12, n)
}
