package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calmkit/beacon/internal/handler"
	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/output"
)

// NewTestCmd injects a synthetic error through the full handling pipeline.
func NewTestCmd() *cobra.Command {
	var (
		category string
		message  string
		screen   string
		action   string
		userID   string
		silent   bool
		noReport bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Route a synthetic error through the full pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := models.ErrorCategory(strings.ToUpper(category))
			if category != "" && !cat.Valid() {
				return cmdErr(fmt.Errorf("unknown category %q", category))
			}

			var rep models.ErrorReport
			if err := withDB(func(db *DB) error {
				svc := newService(db, !silent)

				if screen != "" || action != "" || userID != "" {
					svc.SetContext(models.ErrorContext{
						Screen: screen,
						Action: action,
						UserID: userID,
					})
				}

				ctx := cmd.Context()
				opts := &handler.Options{SkipAlert: silent, SkipReport: noReport}
				if message != "" {
					rep = svc.Handle(ctx, message, nil, opts)
				} else {
					rep = svc.Handle(ctx, handler.Synthetic(cat), nil, opts)
				}
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(rep)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Synthetic error category (network, authentication, validation, permission, data, system, crisis, unknown)")
	cmd.Flags().StringVar(&message, "message", "", "Handle this message instead of a synthetic error")
	cmd.Flags().StringVar(&screen, "screen", "", "Context: screen name")
	cmd.Flags().StringVar(&action, "action", "", "Context: action name")
	cmd.Flags().StringVar(&userID, "user-id", "", "Context: user id")
	cmd.Flags().BoolVar(&silent, "silent", false, "Suppress the alert/toast/haptic surfaces")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Suppress remote delivery")
	return cmd
}
