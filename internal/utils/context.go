// Package utils provides shared utility functions and constants
package utils

// Keys used to store values in the echo context
const (
	ContextKeyRequestID = "request_id"
	ContextKeyTokenID   = "token_id"
)
