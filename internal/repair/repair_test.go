package repair

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStructured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced json block",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want: `{"a": 1}`,
		},
		{
			name: "fenced block without language",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "first fenced block wins",
			raw:  "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "outermost braces",
			raw:  "The result is {\"a\": {\"b\": 2}} as requested.",
			want: `{"a": {"b": 2}}`,
		},
		{
			name: "plain json passes through",
			raw:  "  {\"a\": 1}  ",
			want: `{"a": 1}`,
		},
		{
			name: "no json at all",
			raw:  "  sorry, I cannot help  ",
			want: "sorry, I cannot help",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractStructured(tt.raw))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type payload struct {
		Signals []string `json:"signals"`
	}

	t.Run("clean json", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, Decode(`{"signals": ["a", "b"]}`, &p))
		assert.Equal(t, []string{"a", "b"}, p.Signals)
	})

	t.Run("fenced prose-wrapped json", func(t *testing.T) {
		t.Parallel()
		var p payload
		raw := "Sure! Here are the signals:\n```json\n{\"signals\": [\"a\"]}\n```"
		require.NoError(t, Decode(raw, &p))
		assert.Equal(t, []string{"a"}, p.Signals)
	})

	t.Run("empty input is malformed", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := Decode("   ", &p)
		var malformed *MalformedOutputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "   ", malformed.Raw)
	})

	t.Run("undecodable payload is malformed", func(t *testing.T) {
		t.Parallel()
		var p payload
		raw := "{\"signals\": [broken"
		err := Decode(raw, &p)
		var malformed *MalformedOutputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, raw, malformed.Raw)
		assert.Contains(t, err.Error(), "malformed structured output")
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("boom")
		err := &MalformedOutputError{Raw: "x", Err: cause}
		assert.ErrorIs(t, err, cause)
	})
}
