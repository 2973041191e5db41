package classify

import "github.com/calmkit/beacon/internal/models"

var userMessages = map[models.ErrorCategory]string{
	models.CategoryNetwork:        "Connection problem. Please check your internet and try again.",
	models.CategoryAuthentication: "Your session has expired. Please sign in again.",
	models.CategoryValidation:     "Some information looks incorrect. Please review and try again.",
	models.CategoryPermission:     "This feature needs a permission that hasn't been granted.",
	models.CategoryData:           "We had trouble loading your information. Your data is safe.",
	models.CategorySystem:         "Something went wrong on our side. Please try again shortly.",
	models.CategoryCrisis:         "You're not alone. Immediate support is available.",
	models.CategoryUnknown:        "Something unexpected happened. Please try again.",
}

var recoverySuggestions = map[models.ErrorCategory][]string{
	models.CategoryNetwork: {
		"Check your internet connection",
		"Try again in a moment",
		"Switch between Wi-Fi and mobile data",
	},
	models.CategoryAuthentication: {
		"Sign in again",
		"Reset your password if the problem continues",
	},
	models.CategoryValidation: {
		"Review the highlighted fields",
		"Make sure all required information is filled in",
	},
	models.CategoryPermission: {
		"Open your device settings and grant the permission",
		"Restart the app after changing permissions",
	},
	models.CategoryData: {
		"Pull down to refresh",
		"Your entries sync automatically once the connection returns",
	},
	models.CategorySystem: {
		"Try again in a few minutes",
		"Update to the latest app version",
	},
	models.CategoryCrisis: {
		"Immediate support is available",
		"Reach out to your crisis contacts or a helpline now",
	},
	models.CategoryUnknown: {
		"Please try again",
		"Restart the app if the problem continues",
	},
}

// UserMessage returns the user-safe message for a category, unless the source
// error carried an explicit override.
func UserMessage(category models.ErrorCategory, override string) string {
	if override != "" {
		return override
	}
	if msg, ok := userMessages[category]; ok {
		return msg
	}
	return userMessages[models.CategoryUnknown]
}

// RecoverySuggestions returns the ordered suggestion list for a category.
func RecoverySuggestions(category models.ErrorCategory) []string {
	if s, ok := recoverySuggestions[category]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), recoverySuggestions[models.CategoryUnknown]...)
}
