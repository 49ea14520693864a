package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_MAX"`
	Field   string                 `json:"field,omitempty" example:"asset"`
	Message string                 `json:"message,omitempty" example:"asset must be at most 32 characters"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
