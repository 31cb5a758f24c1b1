package responses

// SuccessEnvelope wraps every successful ticket API payload. Handlers never
// write bare objects; clients can always unwrap "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code is one of the stable error codes
// (VALIDATION_ERROR, FORBIDDEN, NOT_FOUND, STATE_CONFLICT, INTERNAL,
// DEPENDENCY); Details carries field-level validation or transition context
// only when the code allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope mirrors SuccessEnvelope for the failure path.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
