package engine

import (
	"context"
	"strings"
)

// EchoEngine answers with the last user line of the prompt. It never leaves the
// process and is used for demos and tests.
type EchoEngine struct{}

var _ Engine = EchoEngine{}

func (EchoEngine) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if rest, ok := strings.CutPrefix(lines[i], "User: "); ok {
			return "You said: " + rest, nil
		}
	}
	return "You said: " + strings.TrimSpace(prompt), nil
}
