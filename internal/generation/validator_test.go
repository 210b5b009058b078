package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sethtw/saga-sub000/internal/schema"
)

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced block with language tag",
			raw:  "Here you go:\n```json\n{\"name\": \"A\"}\n```\nEnjoy!",
			want: `{"name": "A"}`,
		},
		{
			name: "fenced block without language tag",
			raw:  "```\n{\"name\": \"A\"}\n```",
			want: `{"name": "A"}`,
		},
		{
			name: "brace span with surrounding prose",
			raw:  `Some text {"name": "B"} trailing commentary`,
			want: `{"name": "B"}`,
		},
		{
			name: "plain object",
			raw:  `{"name": "C"}`,
			want: `{"name": "C"}`,
		},
		{
			name: "no structure at all",
			raw:  "just words",
			want: "just words",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPayload(tt.raw))
		})
	}
}

func TestParseAndValidate(t *testing.T) {
	s := schema.Schema{Fields: []schema.Field{
		{Key: "name", Kind: schema.KindString, Required: true},
		{Key: "description", Kind: schema.KindText, Required: true},
	}}

	t.Run("valid fenced payload", func(t *testing.T) {
		raw := "```json\n{\"name\": \"Grom\", \"description\": \"A dwarf\"}\n```"
		data, err := ParseAndValidate("character", raw, s)
		require.NoError(t, err)
		assert.Equal(t, "Grom", data["name"])
	})

	t.Run("unparseable payload", func(t *testing.T) {
		_, err := ParseAndValidate("character", "{name: [unclosed", s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "character", verr.ObjectType)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := ParseAndValidate("character", `{"name": "Grom"}`, s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "description")
	})

	t.Run("scalar response rejected", func(t *testing.T) {
		_, err := ParseAndValidate("character", `"just a string"`, s)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("empty response rejected", func(t *testing.T) {
		_, err := ParseAndValidate("character", "   ", s)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
