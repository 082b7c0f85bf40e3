package commands

import (
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// CreateSynsetCommand creates a new synset, optionally as a child of an
// existing one. Creating with a parent is the only way the API grows the
// hierarchy; existing synsets are never re-parented.
type CreateSynsetCommand struct {
	WNID       string
	Words      []string
	Gloss      string
	ParentWNID string
}

// Validate implements bus.Command
func (c CreateSynsetCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.WNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if c.ParentWNID != "" && !valueobjects.IsValidWNID(c.ParentWNID) {
		return pkgerrors.NewValidationError("parent_wnid must be the letter n followed by 8 digits")
	}
	if c.ParentWNID == c.WNID {
		return pkgerrors.NewValidationError("synset cannot be its own parent")
	}
	return nil
}

// UpdateSynsetCommand edits a synset's words and gloss. The wnid and the
// parent link are immutable through the API.
type UpdateSynsetCommand struct {
	WNID  string
	Words []string
	Gloss string
}

// Validate implements bus.Command
func (c UpdateSynsetCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.WNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	return nil
}

// DeleteSynsetCommand removes a childless synset and cascades to its images.
type DeleteSynsetCommand struct {
	WNID string
}

// Validate implements bus.Command
func (c DeleteSynsetCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.WNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	return nil
}

// LinkHyponymCommand attaches an existing root synset as a child of another.
type LinkHyponymCommand struct {
	ParentWNID string
	ChildWNID  string
}

// Validate implements bus.Command
func (c LinkHyponymCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.ParentWNID) || !valueobjects.IsValidWNID(c.ChildWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	if c.ParentWNID == c.ChildWNID {
		return pkgerrors.NewValidationError("synset cannot be its own hyponym")
	}
	return nil
}

// DetachHyponymCommand detaches a child from its parent, making it a root.
type DetachHyponymCommand struct {
	ParentWNID string
	ChildWNID  string
}

// Validate implements bus.Command
func (c DetachHyponymCommand) Validate() error {
	if !valueobjects.IsValidWNID(c.ParentWNID) || !valueobjects.IsValidWNID(c.ChildWNID) {
		return pkgerrors.NewValidationError("wnid must be the letter n followed by 8 digits")
	}
	return nil
}
