package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"fixed_code\": \"x\"}\n```", `{"fixed_code": "x"}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
		{"only leading", "```json\n{}", "{}"},
		{"only trailing", "{}\n```", "{}"},
		{"inner fence kept", "```\nprint('```')\n```", "print('```')"},
		{"single strip each side", "``````json\n{}\n``````", "```json\n{}\n```"},
		{"language other than json", "```python\nx = 1\n```", "python\nx = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.input))
		})
	}
}
