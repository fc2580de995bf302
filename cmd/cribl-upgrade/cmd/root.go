package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/cribl-upgrade/internal/config"
	"github.com/oshokin/cribl-upgrade/internal/logger"
	"github.com/oshokin/cribl-upgrade/internal/service/upgrader"
	"github.com/oshokin/cribl-upgrade/internal/version"
)

// rootCmd represents the base command that upgrades the local installation.
//
//nolint:gochecknoglobals // Required by Cobra CLI framework architecture.
var rootCmd = newRootCommand()

// newRootCommand builds the command; the -h/--help flag is provided by cobra.
func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "cribl-upgrade",
		Short:         "Update Cribl installation",
		Long:          usage(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeLog, err := logger.NewFile(logger.DefaultFilename, nil)
			if err != nil {
				return err
			}

			defer closeLog()

			return upgrader.Run(logger.ToContext(cmd.Context(), l), &upgrader.Options{
				SettingsPath: config.DefaultSettingsFilename,
			})
		},
	}
}

// usage lists the settings the upgrade reads from the settings file.
func usage() string {
	return fmt.Sprintf(`Update Cribl installation.

Settings are read from %s in the working directory, one KEY=VALUE per line:
  - %s: Path to the Cribl tar file for update
  - %s (optional, defaults to %s): Path to the Cribl installation directory
  - %s (optional, defaults to false): Boolean indicating if Cribl is running as a service
  - %s (optional): Path to archive the existing Cribl installation before update

Every step is appended to %s.

Build: %s`,
		config.DefaultSettingsFilename,
		config.KeyTarFile,
		config.KeyHome, config.DefaultHome,
		config.KeyIsService,
		config.KeyArchiveLocation,
		logger.DefaultFilename,
		version.Full(),
	)
}

// Execute runs the cribl-upgrade CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
