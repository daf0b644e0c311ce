package http

// Envelope is the stable API response shape: every payload carries ok and ts,
// successful ones embed the endpoint data, failed ones carry error.
type Envelope struct {
	OK    bool        `json:"ok"`
	TS    int64       `json:"ts"`
	Data  interface{} `json:"data,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
	Error *AppError   `json:"error,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
