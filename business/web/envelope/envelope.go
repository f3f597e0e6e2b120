// Package envelope provides the response wrapper used by every successful
// ledger API call.
package envelope

// Response wraps the data returned by an API call.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// OK constructs a successful response.
func OK(data any, message string) Response {
	return Response{
		Success: true,
		Data:    data,
		Message: message,
	}
}
