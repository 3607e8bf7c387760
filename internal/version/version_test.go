package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFullContainsShort(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "app-packager"}
	AttachCobraVersionCommand(root)

	var output bytes.Buffer

	root.SetOut(&output)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, output.String(), Full())
}
