package ports

import (
	"context"

	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
)

// SynsetFilter narrows a synset listing. Zero value lists the whole taxonomy
// ordered by wnid ascending.
type SynsetFilter struct {
	// Keyword is a case-insensitive substring matched against word labels.
	// When set, ordering switches to the lexical order of the matched label.
	Keyword string

	// Scope restricts results to descendants of this synset.
	Scope *valueobjects.WNID

	// Depth limits how many hierarchy levels below Scope are included.
	// Zero means unlimited. Ignored without Scope.
	Depth int

	Offset int
	Limit  int
}

// SynsetRepository defines the interface for synset persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type SynsetRepository interface {
	// Save persists a new synset
	Save(ctx context.Context, synset *entities.Synset) error

	// Update persists changes to an existing synset
	Update(ctx context.Context, synset *entities.Synset) error

	// GetByID retrieves a synset by its WNID
	GetByID(ctx context.Context, id valueobjects.WNID) (*entities.Synset, error)

	// Exists checks for a synset by its natural key
	Exists(ctx context.Context, id valueobjects.WNID) (bool, error)

	// List retrieves synsets matching the filter plus the total match count
	List(ctx context.Context, filter SynsetFilter) ([]*entities.Synset, int64, error)

	// Children retrieves the ordered direct children of a synset
	Children(ctx context.Context, id valueobjects.WNID, offset, limit int) ([]*entities.Synset, int64, error)

	// CountChildren returns the number of direct children
	CountChildren(ctx context.Context, id valueobjects.WNID) (int64, error)

	// Delete removes a synset, cascading to its images. Callers are
	// responsible for rejecting deletion while children exist.
	Delete(ctx context.Context, id valueobjects.WNID) error
}

// ImageRepository defines the interface for image persistence
type ImageRepository interface {
	// Save persists a new image and assigns its identifier
	Save(ctx context.Context, image *entities.Image) (*entities.Image, error)

	// Update persists changes to an existing image
	Update(ctx context.Context, image *entities.Image) error

	// GetByID retrieves an image inside its owning synset's namespace
	GetByID(ctx context.Context, synsetID valueobjects.WNID, id int64) (*entities.Image, error)

	// ExistsURL checks for an image by its (synset, url) natural key
	ExistsURL(ctx context.Context, synsetID valueobjects.WNID, url string) (bool, error)

	// GetByURL retrieves an image by its (synset, url) natural key
	GetByURL(ctx context.Context, synsetID valueobjects.WNID, url string) (*entities.Image, error)

	// ListBySynset retrieves a synset's images ordered by id
	ListBySynset(ctx context.Context, synsetID valueobjects.WNID, offset, limit int) ([]*entities.Image, int64, error)

	// ListAll retrieves images across the taxonomy ordered by (synset, id)
	ListAll(ctx context.Context, offset, limit int) ([]*entities.Image, int64, error)

	// CountBySynset returns the number of images owned by a synset
	CountBySynset(ctx context.Context, synsetID valueobjects.WNID) (int64, error)

	// Delete removes a single image
	Delete(ctx context.Context, synsetID valueobjects.WNID, id int64) error
}

// Repositories bundles the per-entity repositories bound to one store handle,
// either the root connection or an open transaction.
type Repositories struct {
	Synsets SynsetRepository
	Images  ImageRepository
}

// UnitOfWork executes a function against transactional repositories.
// The transaction commits iff fn returns nil; any error rolls back every
// write made through the passed repositories.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
