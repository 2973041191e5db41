package models

import (
	"time"
)

// DefaultErrorMessage is used when a handled value carries no message of its own.
const DefaultErrorMessage = "An unexpected error occurred"

// ErrorCategory is the coarse classification bucket assigned to a handled error.
type ErrorCategory string

// Error category constants, ordered by classification priority.
const (
	CategoryNetwork        ErrorCategory = "NETWORK"
	CategoryAuthentication ErrorCategory = "AUTHENTICATION"
	CategoryValidation     ErrorCategory = "VALIDATION"
	CategoryPermission     ErrorCategory = "PERMISSION"
	CategoryData           ErrorCategory = "DATA"
	CategorySystem         ErrorCategory = "SYSTEM"
	CategoryCrisis         ErrorCategory = "CRISIS"
	CategoryUnknown        ErrorCategory = "UNKNOWN"
)

// Valid reports whether c is a known category.
func (c ErrorCategory) Valid() bool {
	switch c {
	case CategoryNetwork, CategoryAuthentication, CategoryValidation,
		CategoryPermission, CategoryData, CategorySystem, CategoryCrisis, CategoryUnknown:
		return true
	}
	return false
}

// ErrorSeverity is the urgency tier driving notification and reporting policy.
type ErrorSeverity string

// Error severity constants, from least to most urgent.
const (
	SeverityLow      ErrorSeverity = "LOW"
	SeverityMedium   ErrorSeverity = "MEDIUM"
	SeverityHigh     ErrorSeverity = "HIGH"
	SeverityCritical ErrorSeverity = "CRITICAL"
)

// Valid reports whether s is a known severity.
func (s ErrorSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank returns a comparable ordering for severities (LOW=0 .. CRITICAL=3).
func (s ErrorSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return 1
}

// ErrorContext carries caller-supplied situational data attached to a report.
// It is computed once at report creation by merging the process-wide context
// with the per-call override; per-call fields win on conflict.
type ErrorContext struct {
	UserID    string         `json:"user_id,omitempty"`
	Screen    string         `json:"screen,omitempty"`
	Action    string         `json:"action,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Merge returns a copy of base with non-zero fields of override applied on top.
// Metadata maps are shallow-merged key by key, override keys winning.
func (base ErrorContext) Merge(override ErrorContext) ErrorContext {
	out := base
	if override.UserID != "" {
		out.UserID = override.UserID
	}
	if override.Screen != "" {
		out.Screen = override.Screen
	}
	if override.Action != "" {
		out.Action = override.Action
	}
	if len(override.Metadata) > 0 {
		merged := make(map[string]any, len(base.Metadata)+len(override.Metadata))
		for k, v := range base.Metadata {
			merged[k] = v
		}
		for k, v := range override.Metadata {
			merged[k] = v
		}
		out.Metadata = merged
	}
	if !override.Timestamp.IsZero() {
		out.Timestamp = override.Timestamp
	}
	return out
}

// ErrorReport is the structured record produced for each handled error.
// Reports are immutable once created; the only permitted post-hoc change is
// the one-way crisis escalation applied before the report leaves the pipeline.
type ErrorReport struct {
	ID                  string        `json:"id"`
	Message             string        `json:"message"`
	Stack               string        `json:"stack,omitempty"`
	Severity            ErrorSeverity `json:"severity"`
	Category            ErrorCategory `json:"category"`
	Context             ErrorContext  `json:"context"`
	UserMessage         string        `json:"user_message"`
	RecoverySuggestions []string      `json:"recovery_suggestions"`
	IsRecoverable       bool          `json:"is_recoverable"`
	RequiresSupport     bool          `json:"requires_support"`
}

// Clone returns a deep copy of the report, so history snapshots cannot be
// mutated by callers holding a reference.
func (r ErrorReport) Clone() ErrorReport {
	out := r
	if len(r.RecoverySuggestions) > 0 {
		out.RecoverySuggestions = append([]string(nil), r.RecoverySuggestions...)
	}
	if len(r.Context.Metadata) > 0 {
		meta := make(map[string]any, len(r.Context.Metadata))
		for k, v := range r.Context.Metadata {
			meta[k] = v
		}
		out.Context.Metadata = meta
	}
	return out
}
