package literal

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"1", 1},
		{"-7", -7},
		{"+3", 3},
		{"0", 0},
		{"00", 0},
		{"0x1f", 31},
		{"1_000", 1000},
		{"1.5", 1.5},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"-2.5e-3", -0.0025},
		{"'a'", "a"},
		{`"b"`, "b"},
		{`'it\'s'`, "it's"},
		{`'a' "b"`, "ab"},
		{`'\x41\n'`, "A\n"},
		{`r'\n'`, `\n`},
		{`'''tri'''`, "tri"},
		{"b'xy'", []byte("xy")},
		{"True", true},
		{"False", false},
		{"None", nil},
		{"  42  ", 42},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Containers(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		got, err := Parse("[1, 2, 3]")
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, got)
	})

	t.Run("empty list", func(t *testing.T) {
		got, err := Parse("[]")
		require.NoError(t, err)
		assert.Equal(t, []any{}, got)
	})

	t.Run("tuple", func(t *testing.T) {
		got, err := Parse("(0, 1)")
		require.NoError(t, err)
		assert.Equal(t, value.Tuple{0, 1}, got)
	})

	t.Run("single element tuple", func(t *testing.T) {
		got, err := Parse("(1,)")
		require.NoError(t, err)
		assert.Equal(t, value.Tuple{1}, got)
	})

	t.Run("parenthesized expression is not a tuple", func(t *testing.T) {
		got, err := Parse("(1)")
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("bare comma list is a tuple", func(t *testing.T) {
		got, err := Parse("1, 2, 3")
		require.NoError(t, err)
		assert.Equal(t, value.Tuple{1, 2, 3}, got)
	})

	t.Run("dict keeps insertion order", func(t *testing.T) {
		got, err := Parse("{'b': 1, 'a': [2, 3]}")
		require.NoError(t, err)
		m, ok := got.(*value.Map)
		require.True(t, ok)
		assert.Equal(t, []value.Pair{{Key: "b", Value: 1}, {Key: "a", Value: []any{2, 3}}}, value.Pairs(m))
	})

	t.Run("empty dict", func(t *testing.T) {
		got, err := Parse("{}")
		require.NoError(t, err)
		m, ok := got.(*value.Map)
		require.True(t, ok)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("set drops duplicates", func(t *testing.T) {
		got, err := Parse("{1, 2, 1}")
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, got)
	})

	t.Run("nested over lines", func(t *testing.T) {
		got, err := Parse("[\n  [0, 1],\n  [2, 3],\n]")
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{0, 1}, []any{2, 3}}, got)
	})
}

func TestParse_Errors(t *testing.T) {
	syntax := []string{
		"",
		"test 1, test 2",
		"[1, 2",
		"'unterminated",
		"03",
		"1abc",
		"a\nb",
		"{1: }",
		"99999999999999999999999",
	}
	for _, in := range syntax {
		t.Run("syntax "+in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}

	notLiteral := []string{
		"a",
		"test",
		"foo.bar",
		"f(1)",
		"1 + 2",
		"[x, 1]",
		"-'a'",
		"f'x'",
	}
	for _, in := range notLiteral {
		t.Run("non-literal "+in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotLiteral)
			assert.NotErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParse_Nesting(t *testing.T) {
	t.Run("deep brackets fail fast", func(t *testing.T) {
		for _, in := range []string{
			strings.Repeat("[", 1_000_000),
			strings.Repeat("(", 1_000_000),
			strings.Repeat("{1: ", 1_000_000),
			strings.Repeat("-", 1_000_000) + "1",
		} {
			_, err := Parse(in)
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), "too many nested parentheses")
		}
	})

	t.Run("moderate nesting parses", func(t *testing.T) {
		v, err := Parse(strings.Repeat("[", 100) + strings.Repeat("]", 100))
		require.NoError(t, err)
		assert.IsType(t, []any{}, v)
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"true", true, "True"},
		{"int", 5, "5"},
		{"uint8", uint8(7), "7"},
		{"float whole", 5.0, "5.0"},
		{"float frac", 0.1, "0.1"},
		{"float big", 1e16, "1e+16"},
		{"float small", 1.5e-5, "1.5e-05"},
		{"string bare", "a b", "a b"},
		{"list", []any{1}, "[1]"},
		{"list of strings", []any{"a", "it's"}, `['a', "it's"]`},
		{"tuple single", value.Tuple{1}, "(1,)"},
		{"tuple", value.Tuple{1, "2", 3.0}, "(1, '2', 3.0)"},
		{"dict", value.MapOf("a", 1, 2, nil), "{'a': 1, 2: None}"},
		{"bytes", []byte("a'\x00"), `b"a'\x00"`},
		{"datetime", time.Date(2021, 3, 26, 0, 56, 0, 0, time.UTC), "2021-03-26 00:56:00"},
		{"datetime micro", time.Date(2021, 3, 26, 0, 56, 0, 1500, time.UTC), "2021-03-26 00:56:00.000001"},
		{"datetime zone", time.Date(2021, 3, 26, 0, 0, 0, 0, time.FixedZone("", -5*3600)), "2021-03-26 00:00:00-05:00"},
		{"date", civil.Date{Year: 2021, Month: 3, Day: 26}, "2021-03-26"},
		{"timedelta", 13 * time.Hour, "13:00:00"},
		{"timedelta days", 49*time.Hour + 500*time.Millisecond, "2 days, 1:00:00.500000"},
		{"negative timedelta", -time.Second, "-1 day, 23:59:59"},
		{"path", value.Path("/path/test"), "/path/test"},
		{"nested datetime", []any{time.Date(2021, 3, 26, 0, 0, 0, 0, time.UTC)}, "[datetime.datetime(2021, 3, 26, 0, 0)]"},
		{"go map", map[string]int{"b": 2, "a": 1}, "{'a': 1, 'b': 2}"},
		{"int slice", []int{1, 2}, "[1, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestRepr_String(t *testing.T) {
	assert.Equal(t, "'a'", Repr("a"))
	assert.Equal(t, `'a\nb'`, Repr("a\nb"))
	assert.Equal(t, `'a\'"'`, Repr(`a'"`))
	assert.Equal(t, "'é'", Repr("é"))
}

func TestFormatParse_RoundTrip(t *testing.T) {
	inputs := []any{
		[]any{1, "two", 3.5, true, nil},
		value.Tuple{1, value.Tuple{2, 3}},
		[]any{[]byte("raw"), "q'uote", "new\nline"},
	}
	for _, in := range inputs {
		got, err := Parse(Format(in))
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}
