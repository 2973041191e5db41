package models

import (
	"errors"
	"fmt"
)

// CodedError is implemented by enriched errors that carry structured context
// and remediation hints. The report and output packages use this interface to
// avoid an import cycle.
type CodedError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// ErrReportDelivery is the sentinel matched by errors.Is for delivery failures.
var ErrReportDelivery = errors.New("report delivery failed")

// ReportDeliveryError is returned when a report could not be delivered to the
// remote endpoint after the bounded retry budget was exhausted. Err carries
// the final attempt's failure; Status is set when that failure was an HTTP
// status rejection.
type ReportDeliveryError struct {
	ReportID string
	Endpoint string
	Attempts int
	Status   int
	Err      error
}

func (e *ReportDeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("report delivery failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("report delivery failed after %d attempts", e.Attempts)
}

func (e *ReportDeliveryError) Unwrap() error { return e.Err }
func (e *ReportDeliveryError) ErrorCode() string { return "REPORT_DELIVERY_FAILED" }
func (e *ReportDeliveryError) Context() map[string]string {
	ctx := map[string]string{
		"report_id": e.ReportID,
		"endpoint":  e.Endpoint,
		"attempts":  fmt.Sprintf("%d", e.Attempts),
	}
	if e.Status != 0 {
		ctx["status"] = fmt.Sprintf("%d", e.Status)
	}
	return ctx
}
func (e *ReportDeliveryError) SuggestedAction() string {
	return "the report was queued durably; run `beacon queue flush` once connectivity returns"
}
func (e *ReportDeliveryError) Is(target error) bool { return target == ErrReportDelivery }
