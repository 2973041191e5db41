package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calmkit/beacon/internal/models"
)

func TestCategorize_RuleTable(t *testing.T) {
	tests := []struct {
		name string
		in   models.NormalizedError
		want models.ErrorCategory
	}{
		{"network code", models.NormalizedError{Code: "NETWORK_ERROR", Message: "boom"}, models.CategoryNetwork},
		{"econnrefused", models.NormalizedError{Code: "ECONNREFUSED", Message: "boom"}, models.CategoryNetwork},
		{"fetch message", models.NormalizedError{Message: "fetch failed"}, models.CategoryNetwork},
		{"network message case-insensitive", models.NormalizedError{Message: "Network unreachable"}, models.CategoryNetwork},
		{"auth code", models.NormalizedError{Code: "AUTH_FAILED", Message: "boom"}, models.CategoryAuthentication},
		{"401", models.NormalizedError{Status: 401, Message: "nope"}, models.CategoryAuthentication},
		{"403", models.NormalizedError{Status: 403, Message: "nope"}, models.CategoryAuthentication},
		{"unauthorized message", models.NormalizedError{Message: "unauthorized access"}, models.CategoryAuthentication},
		{"validation type", models.NormalizedError{Type: "validation", Message: "bad"}, models.CategoryValidation},
		{"400", models.NormalizedError{Status: 400, Message: "bad"}, models.CategoryValidation},
		{"invalid message", models.NormalizedError{Message: "invalid email"}, models.CategoryValidation},
		{"required message", models.NormalizedError{Message: "name is required"}, models.CategoryValidation},
		{"permission code", models.NormalizedError{Code: "PERMISSION_DENIED", Message: "no"}, models.CategoryPermission},
		{"permission message", models.NormalizedError{Message: "camera permission missing"}, models.CategoryPermission},
		{"data code", models.NormalizedError{Code: "DATA_ERROR", Message: "oops"}, models.CategoryData},
		{"database message", models.NormalizedError{Message: "database corrupt"}, models.CategoryData},
		{"5xx", models.NormalizedError{Status: 503, Message: "oops"}, models.CategorySystem},
		{"internal message", models.NormalizedError{Message: "internal failure"}, models.CategorySystem},
		{"unknown", models.NormalizedError{Message: "weird"}, models.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Categorize(tt.in))
		})
	}
}

func TestCategorize_PriorityOrder(t *testing.T) {
	// "network" beats auth signals because networks rules run first.
	n := models.NormalizedError{Status: 401, Message: "network auth failed"}
	require.Equal(t, models.CategoryNetwork, Categorize(n))

	// 503 + "db down": "db" is not a data trigger, so status>=500 wins.
	n = models.NormalizedError{Status: 503, Message: "db down"}
	require.Equal(t, models.CategorySystem, Categorize(n))
}

func TestCategorize_Deterministic(t *testing.T) {
	n := models.NormalizedError{Code: "NETWORK_ERROR", Message: "fetch failed", Status: 502}
	first := Categorize(n)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Categorize(n))
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name     string
		category models.ErrorCategory
		in       models.NormalizedError
		want     models.ErrorSeverity
	}{
		{"crisis always critical", models.CategoryCrisis, models.NormalizedError{}, models.SeverityCritical},
		{"fatal flag", models.CategoryUnknown, models.NormalizedError{IsFatal: true}, models.SeverityCritical},
		{"critical flag", models.CategoryNetwork, models.NormalizedError{Critical: true}, models.SeverityCritical},
		{"system high", models.CategorySystem, models.NormalizedError{}, models.SeverityHigh},
		{"auth medium", models.CategoryAuthentication, models.NormalizedError{}, models.SeverityMedium},
		{"network low", models.CategoryNetwork, models.NormalizedError{}, models.SeverityLow},
		{"validation low", models.CategoryValidation, models.NormalizedError{}, models.SeverityLow},
		{"5xx high fallback", models.CategoryUnknown, models.NormalizedError{Status: 502}, models.SeverityHigh},
		{"default medium", models.CategoryUnknown, models.NormalizedError{}, models.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SeverityFor(tt.category, tt.in))
		})
	}
}

func TestRecoverable(t *testing.T) {
	no := false
	yes := true

	require.False(t, Recoverable(models.CategoryCrisis, models.NormalizedError{}))
	require.False(t, Recoverable(models.CategoryNetwork, models.NormalizedError{IsFatal: true}))
	require.True(t, Recoverable(models.CategoryNetwork, models.NormalizedError{Recoverable: &no}))
	require.True(t, Recoverable(models.CategoryValidation, models.NormalizedError{}))
	require.True(t, Recoverable(models.CategoryData, models.NormalizedError{}))
	require.False(t, Recoverable(models.CategoryUnknown, models.NormalizedError{Recoverable: &no}))
	require.True(t, Recoverable(models.CategoryUnknown, models.NormalizedError{Recoverable: &yes}))
	require.True(t, Recoverable(models.CategoryUnknown, models.NormalizedError{}))
}

func TestUserMessage_OverrideWins(t *testing.T) {
	require.Equal(t, "custom", UserMessage(models.CategoryNetwork, "custom"))
	require.NotEmpty(t, UserMessage(models.CategoryNetwork, ""))
	require.NotEqual(t, UserMessage(models.CategoryNetwork, ""), UserMessage(models.CategoryCrisis, ""))
}

func TestRecoverySuggestions_ReturnsCopy(t *testing.T) {
	a := RecoverySuggestions(models.CategoryNetwork)
	require.NotEmpty(t, a)
	a[0] = "mutated"
	b := RecoverySuggestions(models.CategoryNetwork)
	require.NotEqual(t, "mutated", b[0])
}
