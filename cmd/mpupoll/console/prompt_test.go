package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptText(t *testing.T) {
	assert.Equal(t, "continue? [Y/n]:", PromptText("continue?", yesNoConstraints...))
	assert.Equal(t, "continue? [N/y]:", PromptText("continue?", noYesConstraints...))
	assert.Equal(t, "name: ", PromptText("name: "))
}

func TestMatchAnswer(t *testing.T) {
	tests := []struct {
		response string
		expected string
	}{
		{"", No},
		{"y", Yes},
		{" Y ", Yes},
		{"n", No},
		{"maybe", No},
	}
	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchAnswer(tt.response, noYesConstraints...))
		})
	}
	assert.Equal(t, "free text", MatchAnswer("free text"))
}
