package models

// ErrorKind classifies a failed request for the client.
type ErrorKind string

const (
	// ErrorKindValidation is a missing or malformed request field.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindUpstream is a non-2xx response from the processor.
	ErrorKindUpstream ErrorKind = "upstream"
	// ErrorKindTransport is a network failure reaching the processor.
	ErrorKindTransport ErrorKind = "transport"
)

// ErrorResponse is the single error envelope every endpoint returns.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func NewErrorResponse(kind ErrorKind, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Kind: kind, Message: message}}
}
