package commands

import (
	"github.com/spf13/cobra"

	"github.com/calmkit/beacon/internal/app"
	"github.com/calmkit/beacon/internal/handler"
	"github.com/calmkit/beacon/internal/output"
	"github.com/calmkit/beacon/internal/store"
)

// NewDoctorCmd checks configuration, database connectivity, and queue health.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.EffectiveHandlerSettings()
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			var (
				dbOK          bool
				dbErr         string
				schemaCurrent int64
				schemaLatest  int64
				queueDepth    int
				historyCount  int
			)

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				dbErr = err.Error()
			} else {
				dbOK = true
				defer db.Close()
			}

			if dbOK {
				if cur, latest, err := store.SchemaVersion(db); err == nil {
					schemaCurrent, schemaLatest = cur, latest
				}
				if depth, err := store.QueueDepth(db); err == nil {
					queueDepth = depth
				}
				svc := newService(db, false)
				historyCount = len(svc.Logs(handler.Filter{}))
			}

			type resp struct {
				DBPath         string `json:"db_path"`
				DBSource       string `json:"db_source"`
				DBOK           bool   `json:"db_ok"`
				DBErr          string `json:"db_error,omitempty"`
				SchemaCurrent  int64  `json:"schema_current"`
				SchemaLatest   int64  `json:"schema_latest"`
				QueueDepth     int    `json:"queue_depth"`
				HistoryCount   int    `json:"history_count"`
				MaxErrorLogs   int    `json:"max_error_logs"`
				ReportEndpoint string `json:"report_endpoint,omitempty"`
				Hint           string `json:"hint,omitempty"`
			}
			hint := ""
			if !dbOK {
				hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
			}
			return output.PrintSuccess(resp{
				DBPath:         dbPath,
				DBSource:       dbSource,
				DBOK:           dbOK,
				DBErr:          dbErr,
				SchemaCurrent:  schemaCurrent,
				SchemaLatest:   schemaLatest,
				QueueDepth:     queueDepth,
				HistoryCount:   historyCount,
				MaxErrorLogs:   cfg.MaxErrorLogs,
				ReportEndpoint: cfg.ReportEndpoint,
				Hint:           hint,
			})
		},
	}

	return cmd
}
