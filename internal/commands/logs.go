package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/calmkit/beacon/internal/handler"
	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/output"
)

// NewLogsCmd inspects and clears the persisted error history.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the error report history",
	}

	cmd.AddCommand(newLogsListCmd())
	cmd.AddCommand(newLogsClearCmd())
	return cmd
}

func newLogsListCmd() *cobra.Command {
	var (
		category string
		severity string
		since    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded error reports (filterable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := handler.Filter{}
			if category != "" {
				cat := models.ErrorCategory(strings.ToUpper(category))
				if !cat.Valid() {
					return cmdErr(fmt.Errorf("unknown category %q", category))
				}
				filter.Category = cat
			}
			if severity != "" {
				sev := models.ErrorSeverity(strings.ToUpper(severity))
				if !sev.Valid() {
					return cmdErr(fmt.Errorf("unknown severity %q", severity))
				}
				filter.Severity = sev
			}
			if since != "" {
				ts, err := parseSince(since)
				if err != nil {
					return cmdErr(err)
				}
				filter.Since = ts
			}

			var reports []models.ErrorReport
			if err := withDB(func(db *DB) error {
				svc := newService(db, false)
				reports = svc.Logs(filter)
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Category string               `json:"category,omitempty"`
				Severity string               `json:"severity,omitempty"`
				Since    string               `json:"since,omitempty"`
				Count    int                  `json:"count"`
				Reports  []models.ErrorReport `json:"reports"`
			}
			return output.PrintSuccess(resp{
				Category: string(filter.Category),
				Severity: string(filter.Severity),
				Since:    since,
				Count:    len(reports),
				Reports:  reports,
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by severity")
	cmd.Flags().StringVar(&since, "since", "", "Filter by time (RFC3339 timestamp or duration like 24h)")
	return cmd
}

func newLogsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the history and remove the persisted snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := withDB(func(db *DB) error {
				svc := newService(db, false)
				return svc.ClearLogs(cmd.Context())
			}); err != nil {
				return err
			}

			type resp struct {
				Cleared bool `json:"cleared"`
			}
			return output.PrintSuccess(resp{Cleared: true})
		},
	}
}

// parseSince accepts either an absolute RFC3339 timestamp or a relative
// duration (interpreted as "that long ago").
func parseSince(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (want RFC3339 or duration)", s)
}
