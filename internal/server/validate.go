package server

import (
	"strings"
)

// FieldViolation describes one invalid request field.
type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError is the 400 response body for invalid requests.
type ValidationError struct {
	Error      string           `json:"error"`
	Violations []FieldViolation `json:"violations"`
}

func addViolation(violations *[]FieldViolation, field, desc string) {
	*violations = append(*violations, FieldViolation{Field: field, Description: desc})
}

// validateSubmitCommand checks a command submission request.
// Returns nil when the request is acceptable.
func validateSubmitCommand(req *SubmitCommandRequest) *ValidationError {
	var violations []FieldViolation

	if strings.TrimSpace(req.Command) == "" {
		addViolation(&violations, "command", "command is required")
	}
	switch req.Status {
	case "", "success", "failed":
	default:
		addViolation(&violations, "status", `status must be "success" or "failed"`)
	}
	for _, tag := range req.Tags {
		if strings.Contains(tag, ",") {
			addViolation(&violations, "tags", "tags must not contain commas")
			break
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Error: "validation failed", Violations: violations}
}
