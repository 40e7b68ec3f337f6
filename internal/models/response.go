package models

// APIResponse is the envelope every endpoint returns: a message, a success
// flag, and optionally a named payload ("users", "job", "report", ...).
type APIResponse map[string]interface{}

// NewSuccessResponse creates a success envelope. kv pairs name the payload
// fields, e.g. NewSuccessResponse("Users retrieved successfully", "users", users).
func NewSuccessResponse(message string, kv ...interface{}) APIResponse {
	resp := APIResponse{
		"message": message,
		"success": true,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			resp[key] = kv[i+1]
		}
	}
	return resp
}

// NewErrorResponse creates an error envelope.
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		"message": message,
		"success": false,
	}
}

// NewValidationErrorResponse creates an error envelope carrying per-field
// validation messages.
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		"message": "Validation failed",
		"success": false,
		"errors":  errors,
	}
}
