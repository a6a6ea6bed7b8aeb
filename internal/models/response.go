package models

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps data and a human-readable message in a success envelope.
func OKMessage(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope with a human-readable message.
func Fail(message string) Response {
	return Response{Success: false, Message: message, Error: message}
}
