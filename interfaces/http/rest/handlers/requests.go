package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"imagenet-browser/pkg/common"
	"imagenet-browser/pkg/utils"
)

// maxRequestBytes bounds write request bodies; every accepted body is a
// small JSON object.
const maxRequestBytes = 1 << 20

// readJSON decodes and validates a write request body. It answers the
// request itself on failure, so callers just bail out when it returns false.
// A non-JSON content type is a media type error, not a validation error.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		common.RespondError(w, r, http.StatusUnsupportedMediaType,
			"UNSUPPORTED_MEDIA_TYPE", "request body must be application/json")
		return false
	}

	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		common.RespondError(w, r, http.StatusBadRequest,
			"VALIDATION", "request body is not valid JSON")
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		common.RespondAppError(w, r, err)
		return false
	}
	return true
}

// synsetRequest is the body for creating a synset.
type synsetRequest struct {
	WNID       string   `json:"wnid" validate:"required"`
	Words      []string `json:"words" validate:"required,min=1"`
	Gloss      string   `json:"gloss" validate:"required"`
	ParentWNID string   `json:"parent_wnid"`
}

// synsetEditRequest is the body for editing a synset. The wnid and parent
// link are part of the address, not the editable state.
type synsetEditRequest struct {
	Words []string `json:"words" validate:"required,min=1"`
	Gloss string   `json:"gloss" validate:"required"`
}

// hyponymRequest names an existing synset to link as a child.
type hyponymRequest struct {
	WNID string `json:"wnid" validate:"required"`
}

// imageRequest is the body for creating or editing an image.
type imageRequest struct {
	URL    string `json:"url" validate:"required"`
	SeenAt string `json:"seen_at"`
}
