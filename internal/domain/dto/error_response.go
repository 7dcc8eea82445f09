package dto

import "time"

// ErrorResponse is the standard JSON body for every non-2xx response.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid product id"`
	ErrorDetails string    `json:"error_details,omitempty" example:"strconv.ParseInt: parsing \"abc\": invalid syntax"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the response can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// The inner error, when present, is exposed as ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
