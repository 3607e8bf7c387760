package execute

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Run starts the tool with the provided positional arguments, blocks until
// it exits and returns its combined output. A launch failure or a non-zero
// exit is returned as an error with the captured output attached.
func Run(ctx context.Context, tool string, args ...string) (string, error) {
	command := exec.CommandContext(ctx, tool, args...)

	var output bytes.Buffer

	command.Stdout = &output
	command.Stderr = &output

	if err := command.Run(); err != nil {
		captured := strings.TrimSpace(output.String())
		if captured != "" {
			return output.String(), fmt.Errorf("execute %s: %w: %s", tool, err, captured)
		}

		return output.String(), fmt.Errorf("execute %s: %w", tool, err)
	}

	return output.String(), nil
}
