package entities

import (
	"strings"

	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// Image is a single source URL attached to a synset. Images exist only inside
// their owning synset's namespace; the numeric id alone is not addressable.
type Image struct {
	id       int64
	synsetID valueobjects.WNID
	url      string
	seenAt   string
}

// NewImage creates an image owned by the given synset
func NewImage(synsetID valueobjects.WNID, url, seenAt string) (*Image, error) {
	if synsetID.IsZero() {
		return nil, pkgerrors.NewValidationError("image must belong to a synset")
	}
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, pkgerrors.NewValidationError("image url scheme must be http or https")
	}
	return &Image{
		synsetID: synsetID,
		url:      url,
		seenAt:   seenAt,
	}, nil
}

// ReconstructImage rebuilds an image from repository data
func ReconstructImage(id int64, synsetID valueobjects.WNID, url, seenAt string) *Image {
	return &Image{
		id:       id,
		synsetID: synsetID,
		url:      url,
		seenAt:   seenAt,
	}
}

// ID returns the store-assigned image identifier; zero before first save
func (i *Image) ID() int64 {
	return i.id
}

// SynsetID returns the owning synset's identifier
func (i *Image) SynsetID() valueobjects.WNID {
	return i.synsetID
}

// URL returns the image source URL
func (i *Image) URL() string {
	return i.url
}

// SeenAt returns the ISO date the URL was last seen reachable, possibly empty
func (i *Image) SeenAt() string {
	return i.seenAt
}

// UpdateURL replaces the source URL
func (i *Image) UpdateURL(url string) error {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return pkgerrors.NewValidationError("image url scheme must be http or https")
	}
	i.url = url
	return nil
}

// MarkSeen records the availability date
func (i *Image) MarkSeen(date string) {
	i.seenAt = date
}
