package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripControlChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean string untouched",
			input: `{"stages": []}`,
			want:  `{"stages": []}`,
		},
		{
			name:  "low control chars removed",
			input: "{\"a\":\x00\x01 \"b\x1f\"}",
			want:  `{"a": "b"}`,
		},
		{
			name:  "DEL and C1 range removed",
			input: "abc\x7fdef",
			want:  "abcdef",
		},
		{
			name:  "printable unicode kept",
			input: "计划 plán",
			want:  "计划 plán",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripControlChars(tt.input))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		obj, err := extractJSON(`{"stages": [1, 2]}`)
		require.NoError(t, err)
		assert.Len(t, obj["stages"], 2)
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		raw := "Sure! Here is the roadmap you asked for:\n" +
			`{"stages": [{"stage_name": "Setup"}]}` +
			"\nLet me know if you need changes."
		obj, err := extractJSON(raw)
		require.NoError(t, err)
		assert.Contains(t, obj, "stages")
	})

	t.Run("control chars inside response", func(t *testing.T) {
		raw := "{\"stages\":\x00 [\x01]}"
		obj, err := extractJSON(raw)
		require.NoError(t, err)
		assert.Contains(t, obj, "stages")
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := extractJSON("I could not produce a roadmap, sorry.")
		require.Error(t, err)
		assert.Equal(t, KindFormat, KindOf(err))
		assert.Equal(t, "ai response format error; please try again", err.Error())
	})

	t.Run("truncated response", func(t *testing.T) {
		_, err := extractJSON(`{"stages": [{"stage_name": "Set`)
		require.Error(t, err)
		assert.Equal(t, KindFormat, KindOf(err))
	})

	t.Run("closing brace before opening", func(t *testing.T) {
		_, err := extractJSON(`} nothing here {`)
		require.Error(t, err)
		assert.Equal(t, KindFormat, KindOf(err))
	})

	// The span runs from the first '{' to the last '}', so a stray brace in
	// trailing prose poisons the parse even when the object itself is fine.
	t.Run("stray brace in trailing prose over-captures", func(t *testing.T) {
		raw := `{"stages": []} (note: use {placeholders} carefully}`
		_, err := extractJSON(raw)
		require.Error(t, err)
		assert.Equal(t, KindFormat, KindOf(err))
	})
}
