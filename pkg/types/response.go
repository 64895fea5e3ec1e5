// Package types holds the wire envelopes shared by every pricing API
// response.
package types

// SuccessEnvelope wraps a successful response payload, including resolutions
// whose price is null.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body; Details is populated only for
// codes that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
