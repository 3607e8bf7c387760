package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/logger"
	"github.com/oshokin/app-packager/internal/service/bundler"
	"github.com/oshokin/app-packager/internal/version"
)

var (
	// taskPath to the packaging task YAML file.
	taskPath string

	// logLevel overrides the default logging level.
	logLevel string

	// rootCmd represents the base command for packaging applications.
	rootCmd = &cobra.Command{
		Use:   "app-packager",
		Short: "Package a compiled application into OS-native distributables",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(&bundler.Options{TaskPath: taskPath})
		},
	}

	// appCmd assembles the app without generating installers.
	appCmd = &cobra.Command{
		Use:   "app",
		Short: "Assemble the application folder or bundle only",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(&bundler.Options{TaskPath: taskPath, AppOnly: true})
		},
	}

	// installersCmd generates installers on top of a previously assembled app.
	installersCmd = &cobra.Command{
		Use:   "installers",
		Short: "Generate installers for a previously assembled app",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(&bundler.Options{TaskPath: taskPath, InstallersOnly: true})
		},
	}
)

// run executes the bundler with graceful shutdown handling.
func run(options *bundler.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return bundler.Run(ctx, options)
}

// Execute runs the app-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&taskPath, "config", "c",
		config.DefaultTaskFilename, "path to the packaging task file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "logging level (debug, info, warn, error)")

	rootCmd.AddCommand(appCmd, installersCmd)
}
