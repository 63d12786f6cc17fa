package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/http/response"
)

// EnvelopeVersion is the wire format version carried in every response.
// Clients check this before parsing the rest of the envelope. The raw chi
// routes share the same version via the response package.
const EnvelopeVersion = response.Version

// APIEnvelope is the standard response wrapper for success and simple
// error responses.
type APIEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope is the response wrapper for detailed errors that carry
// a machine-readable code and optional details.
type APIErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered as a huma transformer so handlers return plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	isError := len(status) > 0 && (status[0] == '4' || status[0] == '5')

	if !isError {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	// Detailed errors keep their code and details.
	var apiErr *APIError
	if err, ok := v.(error); ok && errors.As(err, &apiErr) && apiErr.Code != "" {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	message := ""
	if err, ok := v.(error); ok {
		message = err.Error()
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Error:   message,
	}, nil
}
