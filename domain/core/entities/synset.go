package entities

import (
	"strings"

	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// Synset is a taxonomy node: a concept named by one or more word labels,
// optionally defined by a gloss, with at most one parent concept. The parent
// relation across all synsets forms a forest; that invariant is established
// at ingestion time and guarded here by refusing self-parenting.
type Synset struct {
	// Private fields ensure encapsulation
	id     valueobjects.WNID
	words  []string
	gloss  string
	parent *valueobjects.WNID
}

// NewSynset creates a synset with validated labels
func NewSynset(id valueobjects.WNID, words []string, gloss string) (*Synset, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("synset id cannot be empty")
	}

	normalized, err := normalizeLabels(words)
	if err != nil {
		return nil, err
	}

	return &Synset{
		id:    id,
		words: normalized,
		gloss: strings.TrimSpace(gloss),
	}, nil
}

// ReconstructSynset rebuilds a synset from repository data
func ReconstructSynset(id valueobjects.WNID, words []string, gloss string, parent *valueobjects.WNID) *Synset {
	return &Synset{
		id:     id,
		words:  words,
		gloss:  gloss,
		parent: parent,
	}
}

// ID returns the synset's WordNet identifier
func (s *Synset) ID() valueobjects.WNID {
	return s.id
}

// Words returns the ordered word labels
func (s *Synset) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// WordsJoined returns the labels as a single comma-separated string,
// matching the upstream ImageNet words.txt presentation.
func (s *Synset) WordsJoined() string {
	return strings.Join(s.words, ", ")
}

// Gloss returns the synset's definition text, possibly empty
func (s *Synset) Gloss() string {
	return s.gloss
}

// ParentID returns the parent synset id, or nil for a root
func (s *Synset) ParentID() *valueobjects.WNID {
	return s.parent
}

// IsRoot reports whether the synset has no parent
func (s *Synset) IsRoot() bool {
	return s.parent == nil
}

// SetParent records the parent reference. Self-parenting is never legal.
func (s *Synset) SetParent(parent valueobjects.WNID) error {
	if parent.Equals(s.id) {
		return pkgerrors.NewValidationError("synset cannot be its own parent")
	}
	s.parent = &parent
	return nil
}

// DetachParent makes the synset a root
func (s *Synset) DetachParent() {
	s.parent = nil
}

// UpdateWords replaces the label set, keeping order and rejecting duplicates
func (s *Synset) UpdateWords(words []string) error {
	normalized, err := normalizeLabels(words)
	if err != nil {
		return err
	}
	s.words = normalized
	return nil
}

// UpdateGloss replaces the gloss text
func (s *Synset) UpdateGloss(gloss string) {
	s.gloss = strings.TrimSpace(gloss)
}

// normalizeLabels trims labels, drops empties and rejects per-synset duplicates.
func normalizeLabels(words []string) ([]string, error) {
	normalized := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		label := strings.TrimSpace(w)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			return nil, pkgerrors.NewValidationError("duplicate word label '" + label + "'")
		}
		seen[label] = struct{}{}
		normalized = append(normalized, label)
	}
	return normalized, nil
}
