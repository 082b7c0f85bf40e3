package commands

import (
	"strings"

	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// CreateImageCommand attaches a new image URL to an existing synset.
type CreateImageCommand struct {
	SynsetWNID string
	URL        string
	SeenAt     string
}

// Validate implements bus.Command
func (c CreateImageCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return pkgerrors.NewValidationError("image url scheme must be http or https")
	}
	return nil
}

// UpdateImageCommand edits an image's URL or availability date.
type UpdateImageCommand struct {
	SynsetWNID string
	ImageID    int64
	URL        string
	SeenAt     string
}

// Validate implements bus.Command
func (c UpdateImageCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if c.ImageID <= 0 {
		return pkgerrors.NewValidationError("image id must be a positive integer")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return pkgerrors.NewValidationError("image url scheme must be http or https")
	}
	return nil
}

// DeleteImageCommand removes a single image from its synset.
type DeleteImageCommand struct {
	SynsetWNID string
	ImageID    int64
}

// Validate implements bus.Command
func (c DeleteImageCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if c.ImageID <= 0 {
		return pkgerrors.NewValidationError("image id must be a positive integer")
	}
	return nil
}
