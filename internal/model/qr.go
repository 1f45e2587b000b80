package model

import "encoding/json"

// GenerateRequest is the body sent to the QR service.
type GenerateRequest struct {
	URL string `json:"url"`
}

// GenerateResponse is the success body of the QR service. FileURL is relative to the service base URL.
type GenerateResponse struct {
	FileURL string `json:"file_url"`
}

// ErrorResponse is the optional error body of the QR service.
// Both fields are kept raw so that a field of an unexpected type does not hide the other.
type ErrorResponse struct {
	Message json.RawMessage `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}
