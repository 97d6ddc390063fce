package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

var yesNoConstraints = []string{"y", "n"}

var noYesConstraints = []string{"n", "y"}

// YesOrNo asks a question defaulting to yes.
func YesOrNo(question string) (string, error) {
	return Prompt(question, yesNoConstraints...)
}

// NoOrYes asks a question defaulting to no.
func NoOrYes(question string) (string, error) {
	return Prompt(question, noYesConstraints...)
}

func Prompt(question string, constraints ...string) (string, error) {
	rl, err := readline.New(PromptText(question, constraints...))
	if err != nil {
		return "", err
	}
	defer func() { _ = rl.Close() }()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return MatchAnswer(response, constraints...), nil
}

// PromptText renders a question with its allowed answers, the default first
// and upper-cased.
func PromptText(question string, constraints ...string) string {
	if len(constraints) == 0 {
		return question
	}
	var prompt strings.Builder
	prompt.WriteString(question)
	prompt.WriteString(" [")
	prompt.WriteString(strings.ToUpper(constraints[0]))
	for i := 1; i < len(constraints); i++ {
		prompt.WriteString("/")
		prompt.WriteString(constraints[i])
	}
	prompt.WriteString("]:")
	return prompt.String()
}

// MatchAnswer returns the constraint matching response or the default when
// nothing matches.
func MatchAnswer(response string, constraints ...string) string {
	if len(constraints) == 0 {
		return response
	}
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if normalized == c {
			return normalized
		}
	}
	return constraints[0]
}
