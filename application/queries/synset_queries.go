package queries

import (
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// GetSynsetQuery resolves a single synset with its hierarchy context.
type GetSynsetQuery struct {
	WNID string
}

// Validate implements bus.Query
func (q GetSynsetQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.WNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	return nil
}

// GetSynsetResult carries a synset plus the context the representation needs:
// ordered child ids and the image count, without the images themselves.
type GetSynsetResult struct {
	Synset     *entities.Synset
	ChildIDs   []string
	ImageCount int64
}

// ListSynsetsQuery pages through the taxonomy, optionally filtered by a
// keyword over word labels or scoped to the descendants of one synset.
type ListSynsetsQuery struct {
	Keyword   string
	ScopeWNID string
	Depth     int
	Offset    int
	Limit     int
}

// Validate implements bus.Query
func (q ListSynsetsQuery) Validate() error {
	if q.Limit <= 0 {
		return pkgerrors.NewValidationError("limit must be a positive integer")
	}
	if q.Offset < 0 {
		return pkgerrors.NewValidationError("offset cannot be negative")
	}
	if q.ScopeWNID != "" && !valueobjects.IsValidWNID(q.ScopeWNID) {
		return pkgerrors.NewValidationError("scope must be the letter n followed by 8 digits")
	}
	if q.Depth < 0 {
		return pkgerrors.NewValidationError("depth cannot be negative")
	}
	return nil
}

// ListSynsetsResult is one page of synsets plus the total match count.
type ListSynsetsResult struct {
	Synsets []*entities.Synset
	Total   int64
}

// ListHyponymsQuery pages through the direct children of a synset.
type ListHyponymsQuery struct {
	WNID   string
	Offset int
	Limit  int
}

// Validate implements bus.Query
func (q ListHyponymsQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.WNID) {
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

// ListHyponymsResult is one page of a synset's children; Parent is the
// synset whose namespace the collection lives in.
type ListHyponymsResult struct {
	Parent   *entities.Synset
	Hyponyms []*entities.Synset
	Total    int64
}

// GetHyponymQuery resolves a child synset inside its parent's namespace.
type GetHyponymQuery struct {
	ParentWNID string
	ChildWNID  string
}

// Validate implements bus.Query
func (q GetHyponymQuery) Validate() error {
	if !valueobjects.IsValidWNID(q.ParentWNID) || !valueobjects.IsValidWNID(q.ChildWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	return nil
}

// GetHyponymResult carries the resolved child entity.
type GetHyponymResult struct {
	Child *entities.Synset
}
