package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "clean array",
			input:    `["Book venue","Send invitations"]`,
			expected: []string{"Book venue", "Send invitations"},
		},
		{
			name:     "markdown fences",
			input:    "```json\n[\"Book venue\"]\n```",
			expected: []string{"Book venue"},
		},
		{
			name:     "prose around the array",
			input:    "Here are the subtasks:\n[\"Book venue\", \"Send invitations\"]\nLet me know!",
			expected: []string{"Book venue", "Send invitations"},
		},
		{
			name:     "trailing comma",
			input:    `["Book venue", "Send invitations",]`,
			expected: []string{"Book venue", "Send invitations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repaired := repairJSONArray(tt.input)

			var titles []string
			require.NoError(t, json.Unmarshal([]byte(repaired), &titles))
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestCleanSubtaskTitles(t *testing.T) {
	titles := cleanSubtaskTitles([]string{
		"  Book venue ", "", "Send invitations", "   ",
		"a", "b", "c", "d", "e", "f",
	})

	assert.Len(t, titles, maxSubtasks)
	assert.Equal(t, "Book venue", titles[0])
	assert.Equal(t, "Send invitations", titles[1])
}
