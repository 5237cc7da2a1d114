package models

// Identity is the payload carried inside an access token.
type Identity struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
}
