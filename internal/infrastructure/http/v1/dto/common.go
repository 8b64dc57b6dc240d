// Package dto provides data transfer objects for HTTP API.
package dto

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IDResponse returns an entity ID.
type IDResponse struct {
	ID string `json:"id"`
}
