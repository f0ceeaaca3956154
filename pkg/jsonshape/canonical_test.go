package jsonshape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

func TestMarshal(t *testing.T) {
	r := newTestReducer()

	t.Run("canonical member order and numbers", func(t *testing.T) {
		in := value.MapOf("b", 1, "a", []any{1.5, true, nil, 5.0})
		out, err := r.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, `{"a":[1.5,true,null,5],"b":1}`, string(out))
	})

	t.Run("non-text keys", func(t *testing.T) {
		out, err := r.Marshal(value.MapOf(3, "x", 1.5, "y", true, "z", nil, "n"))
		require.NoError(t, err)
		assert.Equal(t, `{"1.5":"y","3":"x","null":"n","true":"z"}`, string(out))
	})

	t.Run("duplicate key spellings", func(t *testing.T) {
		_, err := r.Marshal(value.MapOf(3, "x", "3", "y"))
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("non-finite numbers", func(t *testing.T) {
		_, err := r.Marshal([]any{math.Inf(1)})
		assert.Error(t, err)
	})

	t.Run("unreduced input", func(t *testing.T) {
		_, err := MarshalReduced(struct{}{})
		assert.Error(t, err)
	})
}
