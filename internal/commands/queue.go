package commands

import (
	"github.com/spf13/cobra"

	"github.com/calmkit/beacon/internal/output"
	"github.com/calmkit/beacon/internal/store"
)

// NewQueueCmd manages the durable queue of undelivered reports.
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage reports awaiting remote delivery",
	}

	cmd.AddCommand(newQueueListCmd())
	cmd.AddCommand(newQueueFlushCmd())
	cmd.AddCommand(newQueuePruneCmd())
	return cmd
}

func newQueueListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List queued reports, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pending []store.PendingReport
			if err := withDB(func(db *DB) error {
				p, err := store.PendingReports(db, limit)
				if err != nil {
					return err
				}
				pending = p
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Count   int                   `json:"count"`
				Reports []store.PendingReport `json:"reports"`
			}
			return output.PrintSuccess(resp{Count: len(pending), Reports: pending})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return (0 = all)")
	return cmd
}

func newQueuePruneCmd() *cobra.Command {
	var minAttempts int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop queued reports stuck past an attempt ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pruned int
			if err := withDB(func(db *DB) error {
				n, err := store.PruneReports(db, minAttempts)
				if err != nil {
					return err
				}
				pruned = n
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Pruned      int `json:"pruned"`
				MinAttempts int `json:"min_attempts"`
			}
			return output.PrintSuccess(resp{Pruned: pruned, MinAttempts: minAttempts})
		},
	}

	cmd.Flags().IntVar(&minAttempts, "min-attempts", 20, "Prune reports with at least this many failed deliveries")
	return cmd
}

func newQueueFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Replay queued reports against the configured endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			var delivered, remaining int
			if err := withDB(func(db *DB) error {
				reporter := newReporter(db)
				d, r, err := reporter.Flush(cmd.Context())
				if err != nil {
					return err
				}
				delivered, remaining = d, r
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Delivered int `json:"delivered"`
				Remaining int `json:"remaining"`
			}
			return output.PrintSuccess(resp{Delivered: delivered, Remaining: remaining})
		},
	}
}
