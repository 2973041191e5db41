// Package classify holds the ordered rule tables that map a normalized error
// to a category, severity, recoverability flag, and user-facing messaging.
// Every function here is a pure function of its input, so classification is
// deterministic across calls.
package classify

import (
	"strings"

	"github.com/calmkit/beacon/internal/models"
)

// categoryRule matches a normalized error against one category. Rules are
// evaluated in a fixed priority order; the first match wins. Network-ish
// signals are checked first because they are both common and normally benign.
type categoryRule struct {
	category models.ErrorCategory
	match    func(n models.NormalizedError, msg string) bool
}

var categoryRules = []categoryRule{
	{models.CategoryNetwork, func(n models.NormalizedError, msg string) bool {
		return n.Code == "NETWORK_ERROR" || n.Code == "ECONNREFUSED" ||
			strings.Contains(msg, "network") || strings.Contains(msg, "fetch")
	}},
	{models.CategoryAuthentication, func(n models.NormalizedError, msg string) bool {
		return n.Code == "AUTH_FAILED" || n.Status == 401 || n.Status == 403 ||
			strings.Contains(msg, "auth") || strings.Contains(msg, "unauthorized")
	}},
	{models.CategoryValidation, func(n models.NormalizedError, msg string) bool {
		return n.Type == "validation" || n.Status == 400 ||
			strings.Contains(msg, "invalid") || strings.Contains(msg, "required")
	}},
	{models.CategoryPermission, func(n models.NormalizedError, msg string) bool {
		return n.Code == "PERMISSION_DENIED" || strings.Contains(msg, "permission")
	}},
	{models.CategoryData, func(n models.NormalizedError, msg string) bool {
		return n.Code == "DATA_ERROR" ||
			strings.Contains(msg, "data") || strings.Contains(msg, "database")
	}},
	{models.CategorySystem, func(n models.NormalizedError, msg string) bool {
		return n.Status >= 500 ||
			strings.Contains(msg, "system") || strings.Contains(msg, "internal")
	}},
}

// Categorize assigns exactly one category to a normalized error.
func Categorize(n models.NormalizedError) models.ErrorCategory {
	msg := strings.ToLower(n.Message)
	for _, rule := range categoryRules {
		if rule.match(n, msg) {
			return rule.category
		}
	}
	return models.CategoryUnknown
}

// SeverityFor assigns a severity given an already-determined category.
func SeverityFor(category models.ErrorCategory, n models.NormalizedError) models.ErrorSeverity {
	switch {
	case category == models.CategoryCrisis:
		return models.SeverityCritical
	case n.IsFatal || n.Critical:
		return models.SeverityCritical
	case category == models.CategorySystem:
		return models.SeverityHigh
	case category == models.CategoryAuthentication:
		return models.SeverityMedium
	case category == models.CategoryNetwork, category == models.CategoryValidation:
		return models.SeverityLow
	case n.Status >= 500:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

// Recoverable computes the recoverability flag for a classified error.
// Fatal and crisis errors are never recoverable; network, validation and data
// problems always are; otherwise an explicit flag on the source error wins,
// defaulting to recoverable.
func Recoverable(category models.ErrorCategory, n models.NormalizedError) bool {
	if n.IsFatal || category == models.CategoryCrisis {
		return false
	}
	switch category {
	case models.CategoryNetwork, models.CategoryValidation, models.CategoryData:
		return true
	}
	if n.Recoverable != nil {
		return *n.Recoverable
	}
	return true
}
