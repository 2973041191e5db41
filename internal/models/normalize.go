package models

import (
	"errors"
	"fmt"
)

// NormalizedError is the known shape classification operates on. Arbitrary
// handled values (errors, response maps, plain strings) are mapped into this
// struct before any rule table runs, so the classifier never probes ad hoc
// properties.
type NormalizedError struct {
	Code        string
	Message     string
	Status      int
	Type        string
	IsFatal     bool
	Critical    bool
	Recoverable *bool
	UserMessage string
	Stack       string
}

// Optional interfaces a handled error may implement to enrich normalization.
// They mirror the coded-error surface used across the codebase.
type (
	statusCoder   interface{ StatusCode() int }
	errorCoder    interface{ ErrorCode() string }
	userMessenger interface{ UserFacingMessage() string }
	fatalMarker   interface{ Fatal() bool }
	recoverMarker interface{ Recoverable() bool }
)

// Normalize maps an arbitrary handled value into a NormalizedError.
// Supported inputs: nil, NormalizedError (and pointer), error values
// (including ones implementing the optional interfaces above), map[string]any
// in the loose {code, message, status, type, isFatal, critical, recoverable,
// userMessage, stack} shape, and plain strings. Anything else is formatted
// with %v as the message.
func Normalize(v any) NormalizedError {
	switch e := v.(type) {
	case nil:
		return NormalizedError{Message: DefaultErrorMessage}
	case NormalizedError:
		return withDefaultMessage(e)
	case *NormalizedError:
		if e == nil {
			return NormalizedError{Message: DefaultErrorMessage}
		}
		return withDefaultMessage(*e)
	case map[string]any:
		return normalizeMap(e)
	case string:
		if e == "" {
			e = DefaultErrorMessage
		}
		return NormalizedError{Message: e}
	case error:
		return normalizeError(e)
	default:
		return NormalizedError{Message: fmt.Sprintf("%v", v)}
	}
}

func withDefaultMessage(n NormalizedError) NormalizedError {
	if n.Message == "" {
		n.Message = DefaultErrorMessage
	}
	return n
}

func normalizeError(err error) NormalizedError {
	n := NormalizedError{Message: err.Error()}
	if n.Message == "" {
		n.Message = DefaultErrorMessage
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		n.Status = sc.StatusCode()
	}
	var ec errorCoder
	if errors.As(err, &ec) {
		n.Code = ec.ErrorCode()
	}
	var um userMessenger
	if errors.As(err, &um) {
		n.UserMessage = um.UserFacingMessage()
	}
	var fm fatalMarker
	if errors.As(err, &fm) {
		n.IsFatal = fm.Fatal()
	}
	var rm recoverMarker
	if errors.As(err, &rm) {
		r := rm.Recoverable()
		n.Recoverable = &r
	}
	return n
}

func normalizeMap(m map[string]any) NormalizedError {
	n := NormalizedError{}
	n.Code = stringField(m, "code")
	n.Message = stringField(m, "message")
	n.Type = stringField(m, "type")
	n.UserMessage = stringField(m, "userMessage")
	n.Stack = stringField(m, "stack")
	n.Status = intField(m, "status")
	n.IsFatal = boolField(m, "isFatal")
	n.Critical = boolField(m, "critical")
	if v, ok := m["recoverable"]; ok {
		if b, ok := v.(bool); ok {
			n.Recoverable = &b
		}
	}
	if n.Message == "" {
		n.Message = DefaultErrorMessage
	}
	return n
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON decoding produces float64 for all numbers.
		return int(v)
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
