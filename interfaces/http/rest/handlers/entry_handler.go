package handlers

import (
	"net/http"

	"imagenet-browser/pkg/common"
)

// EntryHandler serves the API entry point. Clients start here and navigate
// by following controls; no other URL needs to be known in advance.
type EntryHandler struct{}

// NewEntryHandler creates the handler
func NewEntryHandler() *EntryHandler {
	return &EntryHandler{}
}

// Get handles GET /api/
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	common.RespondDocument(w, http.StatusOK, EntryDocument())
}
