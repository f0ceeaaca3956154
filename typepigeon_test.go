package typepigeon_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typepigeon "github.com/zacharyburnett/TypePigeon"
	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

func TestToType(t *testing.T) {
	out, err := typepigeon.ToType([]any{1, 2, "3", "4"}, []any{"int"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 4}, out)

	out, err = typepigeon.ToType("01:13:20:15", "timedelta")
	require.NoError(t, err)
	assert.Equal(t, 37*time.Hour+20*time.Minute+15*time.Second, out)

	out, err = typepigeon.ToType("anything", nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = typepigeon.ToType([]any{1, 2, "3", "4"}, value.Tuple{"int", "str"})
	assert.ErrorIs(t, err, coerce.ErrArityMismatch)
}

func TestAs(t *testing.T) {
	out, err := typepigeon.As[map[string]float64](map[any]any{"a": 2.5, "b": 4})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 2.5, "b": 4}, out)

	_, err = typepigeon.As[int]("x")
	assert.ErrorIs(t, err, coerce.ErrMalformedInput)
}

func TestToJSON(t *testing.T) {
	out, err := typepigeon.ToJSON([]any{5, "6", map[int]time.Time{3: time.Date(2021, 3, 27, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	list := out.([]any)
	assert.Equal(t, []any{5, "6"}, list[:2])
	assert.Equal(t, []value.Pair{{Key: 3, Value: "2021-03-27 00:00:00"}}, value.Pairs(list[2].(*value.Map)))
}

func TestNormalize(t *testing.T) {
	d, err := typepigeon.Normalize(reflect.TypeFor[[]int]())
	require.NoError(t, err)
	assert.Equal(t, descriptor.SequenceOf(descriptor.Int), d)

	again, err := typepigeon.Normalize(d)
	require.NoError(t, err)
	assert.Equal(t, d, again)

	_, err = typepigeon.Normalize("Optional[int]")
	assert.ErrorIs(t, err, descriptor.ErrUnsupportedDescriptor)

	e, err := typepigeon.Engine()
	require.NoError(t, err)
	assert.NotNil(t, e)
}
