package bundler

import (
	"context"
	"fmt"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/logger"
	"github.com/oshokin/app-packager/internal/packagers"
)

// Options contains inputs for the bundler entry point.
type Options struct {
	// TaskPath is the packaging task file (defaults to packaging.yaml).
	TaskPath string
	// AppOnly limits the run to app assembly.
	AppOnly bool
	// InstallersOnly limits the run to installer generation on top of a
	// previously assembled app.
	InstallersOnly bool
}

// Run executes the packaging workflow described by the task file: assemble
// the app and, unless limited to one of the two, generate its installers.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "app-packager")

	task, err := config.Load(opts.TaskPath)
	if err != nil {
		return err
	}

	packager, err := packagers.New(task)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	if !opts.InstallersOnly {
		appFile, err := packager.CreateApp(ctx)
		if err != nil {
			return fmt.Errorf("create app: %w", err)
		}

		logger.InfoKV(ctx, "App assembled", "app", appFile)
	}

	if !opts.AppOnly {
		artifacts, err := packager.GenerateInstallers(ctx)
		if err != nil {
			return fmt.Errorf("generate installers: %w", err)
		}

		for _, artifact := range artifacts {
			logger.InfoKV(ctx, "Installer generated", "artifact", artifact)
		}
	}

	logger.Info(ctx, "Packaging completed successfully")

	return nil
}
