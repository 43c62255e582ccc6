package model

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Status  string `json:"status"` // always "error"
	Message string `json:"message"`
}

// LoginResponse is the body of a successful login. Token is present only in
// bearer deployments; session deployments carry the artifact in a cookie and
// never put token material in the body.
type LoginResponse struct {
	Status    string    `json:"status"` // always "success"
	Admin     AdminInfo `json:"admin"`
	Token     string    `json:"token,omitempty"`
	ExpiresIn int       `json:"expires_in,omitempty"` // seconds, bearer only
}

// CheckResponse answers the "who am I" endpoint.
type CheckResponse struct {
	Status          string     `json:"status"`
	IsAuthenticated bool       `json:"isAuthenticated"`
	Admin           *AdminInfo `json:"admin,omitempty"`
}

// OrderListResponse wraps order listings with pagination metadata.
type OrderListResponse struct {
	Status string    `json:"status"`
	Data   []Order   `json:"data"`
	Meta   *ListMeta `json:"meta,omitempty"`
}

// ListMeta contains pagination information for list responses.
type ListMeta struct {
	Count  int   `json:"count"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
