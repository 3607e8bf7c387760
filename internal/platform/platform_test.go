package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolve checks that the auto sentinel maps to the execution platform
// and that concrete values pass through unchanged.
func TestResolve(t *testing.T) {
	t.Parallel()

	require.Equal(t, Current(), Resolve(Auto))
	require.Equal(t, Current(), Resolve(""))
	require.Equal(t, Windows, Resolve(Windows))
	require.Equal(t, Mac, Resolve(Mac))
	require.Equal(t, Linux, Resolve(Linux))
}

// TestIsCurrent ensures exactly one concrete platform matches the host.
func TestIsCurrent(t *testing.T) {
	t.Parallel()

	matches := 0

	for _, p := range []Platform{Linux, Mac, Windows} {
		if p.IsCurrent() {
			matches++
		}
	}

	require.Equal(t, 1, matches)
	require.True(t, Current().IsCurrent())
}

// TestExtensions verifies per-platform executable and icon extensions.
func TestExtensions(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".exe", Windows.ExecutableExtension())
	require.Empty(t, Linux.ExecutableExtension())
	require.Empty(t, Mac.ExecutableExtension())

	require.Equal(t, ".icns", Mac.IconExtension())
	require.Equal(t, ".ico", Windows.IconExtension())
	require.Equal(t, ".png", Linux.IconExtension())
}

// TestValid checks target validation.
func TestValid(t *testing.T) {
	t.Parallel()

	for _, p := range []Platform{Auto, Linux, Mac, Windows} {
		require.True(t, p.Valid())
	}

	require.False(t, Platform("solaris").Valid())
}
