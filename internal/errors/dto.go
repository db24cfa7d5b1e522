package errors

// ErrorResponse is the envelope every failed API request renders. The
// HTTP error handler fills it from the error's hints and safe details.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the consumer-facing message and any reportable
// field details
type ErrorDetail struct {
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
