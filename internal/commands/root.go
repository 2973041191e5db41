package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/calmkit/beacon/internal/app"
	"github.com/calmkit/beacon/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "beacon",
		Short:         "Error intake, classification and crisis-escalation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --db-path into app-level resolver.
			if dbPath, err := cmd.Flags().GetString("db-path"); err == nil && dbPath != "" {
				app.SetDBPathOverride(dbPath)
			}

			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override database path")
	root.Flags().BoolP("version", "v", false, "version for beacon")

	root.AddCommand(NewTestCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(NewQueueCmd())
	root.AddCommand(NewDoctorCmd())
	root.AddCommand(NewSchemaCmd())

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}
