// Package handlers implements HTTP handlers for the gamepass-price-scanner API.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status"           example:"ok"`
	Failed string `json:"failed,omitempty" example:"store"`
}
