package models

// Credentials is the payload posted to the login and register endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the subset of the login reply the client relies on.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
