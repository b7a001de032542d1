package dto

import "coursecatalog/internal/apperr"

// ErrorDetail is the structured error surfaced to callers: a machine-readable
// kind, a human-readable message and, for validation failures, the offending
// fields.
type ErrorDetail struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// ErrorResponse is the envelope for every non-2xx response body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// UploadResponse is returned after a successful asset upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// MessageResponse is a plain acknowledgment, used for deletes.
type MessageResponse struct {
	Message string `json:"message"`
}
