package handlers

import "github.com/ledgerline/internal/provider"

// Handler is the API handler entry point.
type Handler struct {
	*provider.Container
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
