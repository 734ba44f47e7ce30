package types

import "errors"

var ErrNotFound = errors.New("requested item not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrUnsupportedImage = errors.New("unsupported image format")
var ErrNoDetections = errors.New("no food detected in image")
var ErrSessionNotFound = errors.New("chat session not found or expired")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`                           // Indicates if the operation was successful.
	Message string `json:"message,omitempty" example:"Operation successful"` // Optional success message.
	Error   string `json:"error,omitempty" example:"Resource not found"`     // Optional error message.
}
