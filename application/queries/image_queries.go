package queries

import (
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// GetImageQuery resolves an image inside its owning synset's namespace.
// An image id alone is ambiguous; the synset is part of the address.
type GetImageQuery struct {
	SynsetWNID string
	ImageID    int64
}

// Validate implements bus.Query
func (q GetImageQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if q.ImageID <= 0 {
		return pkgerrors.NewValidationError("image id must be a positive integer")
	}
	return nil
}

// GetImageResult carries the resolved image.
type GetImageResult struct {
	Image *entities.Image
}

// GetImageByURLQuery resolves an image by its (synset, url) natural key.
type GetImageByURLQuery struct {
	SynsetWNID string
	URL        string
}

// Validate implements bus.Query
func (q GetImageByURLQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if q.URL == "" {
		return pkgerrors.NewValidationError("url cannot be empty")
	}
	return nil
}

// ListSynsetImagesQuery pages through one synset's images.
type ListSynsetImagesQuery struct {
	SynsetWNID string
	Offset     int
	Limit      int
}

// Validate implements bus.Query
func (q ListSynsetImagesQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.SynsetWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if q.Limit <= 0 {
		return pkgerrors.NewValidationError("limit must be a positive integer")
	}
	if q.Offset < 0 {
		return pkgerrors.NewValidationError("offset cannot be negative")
	}
	return nil
}

// ListImagesQuery pages through images across the whole taxonomy.
type ListImagesQuery struct {
	Offset int
	Limit  int
}

// Validate implements bus.Query
func (q ListImagesQuery) Validate() error {
	if q.Limit <= 0 {
		return pkgerrors.NewValidationError("limit must be a positive integer")
	}
	if q.Offset < 0 {
		return pkgerrors.NewValidationError("offset cannot be negative")
	}
	return nil
}

// ListImagesResult is one page of images plus the total count.
type ListImagesResult struct {
	Images []*entities.Image
	Total  int64
}
