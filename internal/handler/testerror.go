package handler

import (
	"context"

	"github.com/calmkit/beacon/internal/models"
)

// syntheticErrors produce one representative error per category.
// The crisis sample deliberately contains a keyword so the full escalation
// path is exercised end to end.
var syntheticErrors = map[models.ErrorCategory]models.NormalizedError{
	models.CategoryNetwork:        {Code: "NETWORK_ERROR", Message: "test: network request failed"},
	models.CategoryAuthentication: {Status: 401, Message: "test: unauthorized"},
	models.CategoryValidation:     {Type: "validation", Message: "test: invalid field value"},
	models.CategoryPermission:     {Code: "PERMISSION_DENIED", Message: "test: permission denied"},
	models.CategoryData:           {Code: "DATA_ERROR", Message: "test: database read failed"},
	models.CategorySystem:         {Status: 500, Message: "test: internal server error"},
	models.CategoryCrisis:         {Message: "test: message mentioning self harm keywords"},
	models.CategoryUnknown:        {Message: "test: something odd happened"},
}

// Synthetic returns the sample error for a category. Unknown categories fall
// back to UNKNOWN.
func Synthetic(category models.ErrorCategory) models.NormalizedError {
	n, ok := syntheticErrors[category]
	if !ok {
		n = syntheticErrors[models.CategoryUnknown]
	}
	return n
}

// TestError synthesizes a fake error of the given category and routes it
// through the full pipeline. Diagnostic hook, not production behavior.
func (s *Service) TestError(ctx context.Context, category models.ErrorCategory) models.ErrorReport {
	return s.Handle(ctx, Synthetic(category), nil, nil)
}
