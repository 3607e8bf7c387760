package execute

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunCapturesOutput checks the happy path against a ubiquitous tool.
func TestRunCapturesOutput(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}

	output, err := Run(context.Background(), "sh", "-c", "echo packaged")
	require.NoError(t, err)
	require.Contains(t, output, "packaged")
}

// TestRunNonZeroExit ensures failures carry the captured output.
func TestRunNonZeroExit(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}

	_, err := Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}

// TestRunLaunchFailure ensures unknown tools fail to launch.
func TestRunLaunchFailure(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), "definitely-not-a-real-tool-name")
	require.Error(t, err)
}
