package common

import (
	"encoding/json"
	"net/http"

	apperrors "imagenet-browser/pkg/errors"
)

// MasonMediaType is the content type of all hypermedia response bodies.
const MasonMediaType = "application/vnd.mason+json"

// RespondDocument sends a hypermedia document.
func RespondDocument(w http.ResponseWriter, status int, doc interface{}) {
	w.Header().Set("Content-Type", MasonMediaType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(doc)
}

// RespondCreated sends an empty 201 with the Location of the new resource.
func RespondCreated(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
}

// RespondNoContent sends an empty 204.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// errorBody is the Mason @error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"@message"`
		Kind    string `json:"@code,omitempty"`
	} `json:"@error"`
	ResourceURL string `json:"resource_url"`
}

// RespondError sends a Mason error document for the given status and kind.
func RespondError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	var body errorBody
	body.Error.Message = message
	body.Error.Kind = kind
	body.ResourceURL = r.URL.Path

	w.Header().Set("Content-Type", MasonMediaType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondAppError translates an application error into its HTTP shape.
// Unknown errors are masked as internal so store failures never leak detail.
func RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		RespondError(w, r, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}
	RespondError(w, r, http.StatusInternalServerError,
		string(apperrors.ErrorTypeInternal), "internal server error")
}
