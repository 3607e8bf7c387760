package packagers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/app-packager/internal/logger"
)

var (
	// ErrArtifactMissing signals that an external tool reported success but
	// the expected output file is absent. Treated like a tool failure.
	ErrArtifactMissing = errors.New("expected artifact file was not produced")

	// errUpstreamArtifactMissing signals that a generator depends on the
	// output of an earlier generator that did not run.
	errUpstreamArtifactMissing = errors.New("required upstream artifact is missing")
)

// ArtifactGenerator produces one distributable artifact kind (installer,
// merge module, self-extracting bundle). Generators are registered per
// platform in a fixed order because later generators may consume the file
// produced by an earlier one.
//
// Apply runs the external toolchain exactly once per generator instance:
// repeated calls return the memoized result. The cache is trusted without
// re-checking that the file still exists on disk; it lives only for one
// process, so an external deletion between runs is invisible anyway.
type ArtifactGenerator interface {
	// ArtifactName is the human-readable label used in skip and log messages.
	ArtifactName() string
	// Skip reports whether this generator must not run: the feature is
	// disabled by configuration, or the target platform differs from the
	// execution platform and no force override is set (a warning is logged).
	Skip(ctx context.Context, p *Packager) bool
	// Apply produces the artifact file and returns its path.
	Apply(ctx context.Context, p *Packager) (string, error)
}

// skipForeignPlatform implements the shared platform-mismatch precondition:
// true (with a warning) when the target platform differs from the execution
// platform and the force override is unset.
func skipForeignPlatform(ctx context.Context, p *Packager, artifactName string) bool {
	if p.task.Platform.IsCurrent() || p.task.ForceInstaller {
		return false
	}

	warnForeignPlatform(ctx, p, artifactName)

	return true
}

// warnForeignPlatform logs the standard cross-platform skip message.
func warnForeignPlatform(ctx context.Context, p *Packager, artifactName string) {
	logger.Warnf(ctx, "%s cannot be generated: target platform (%s) differs from the execution platform",
		artifactName, p.task.Platform)
}

// verifyArtifact guards against tools that exit zero without producing
// output under some configurations.
func verifyArtifact(artifact string) error {
	if _, err := os.Stat(artifact); err != nil {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, artifact)
	}

	return nil
}
