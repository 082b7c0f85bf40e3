package ingestion

import (
	"sort"
)

// RelationConflictPolicy decides what happens when the relation source
// assigns a second parent to a child that already has one.
type RelationConflictPolicy int

const (
	// LastWriteWins keeps the later edge, matching the inferred behavior
	// of the upstream dumps.
	LastWriteWins RelationConflictPolicy = iota
	// FirstWriteWins keeps the earlier edge.
	FirstWriteWins
)

// BuiltSynset is one node of the finished forest, ready for persistence.
type BuiltSynset struct {
	ID     string
	Labels []string
	Gloss  string
	Parent string
}

// Builder folds the parsed record streams into a forest. It tolerates
// conflicting and cyclic relation edges: conflicts resolve by policy,
// cycle members are dropped, and everything else survives as the largest
// acyclic forest the sources allow.
type Builder struct {
	ConflictPolicy RelationConflictPolicy

	synsets   map[string]*provisionalSynset
	conflicts int
}

type provisionalSynset struct {
	id     string
	labels []string
	gloss  string
	parent string
}

// NewBuilder creates an empty builder with the default policies
func NewBuilder() *Builder {
	return &Builder{
		ConflictPolicy: LastWriteWins,
		synsets:        make(map[string]*provisionalSynset),
	}
}

// AddWords attaches word labels, creating the synset on first reference
func (b *Builder) AddWords(rec WordRecord) {
	s := b.provisional(rec.SynsetID)
	for _, label := range rec.Labels {
		if !containsLabel(s.labels, label) {
			s.labels = append(s.labels, label)
		}
	}
}

// AddGloss attaches a gloss, creating the synset on first reference
func (b *Builder) AddGloss(rec GlossRecord) {
	b.provisional(rec.SynsetID).gloss = rec.Gloss
}

// AddRelation folds one parent/child edge. Both endpoints are created on
// first reference so a later words/gloss line can still fill them in.
func (b *Builder) AddRelation(rec RelationRecord) {
	if rec.ParentID == rec.ChildID {
		b.conflicts++
		return
	}

	b.provisional(rec.ParentID)
	child := b.provisional(rec.ChildID)

	if child.parent != "" && child.parent != rec.ParentID {
		b.conflicts++
		if b.ConflictPolicy == FirstWriteWins {
			return
		}
	}
	child.parent = rec.ParentID
}

// Has reports whether a synset id survived into the forest. Only meaningful
// after Finalize, which removes cycle members.
func (b *Builder) Has(id string) bool {
	_, ok := b.synsets[id]
	return ok
}

// Conflicts returns the number of relation conflicts seen so far
func (b *Builder) Conflicts() int { return b.conflicts }

// Finalize runs the cycle scan and returns the forest ordered by synset id,
// plus the number of synsets removed for being part of a cycle. Children of
// removed synsets are kept and become roots, so no persisted synset ever
// points at a parent the store does not hold.
func (b *Builder) Finalize() ([]BuiltSynset, int) {
	removed := b.removeCycles()

	// Parents dropped by the cycle scan leave dangling pointers; clear them.
	for _, s := range b.synsets {
		if s.parent != "" {
			if _, ok := b.synsets[s.parent]; !ok {
				s.parent = ""
			}
		}
	}

	ids := make([]string, 0, len(b.synsets))
	for id := range b.synsets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forest := make([]BuiltSynset, 0, len(ids))
	for _, id := range ids {
		s := b.synsets[id]
		forest = append(forest, BuiltSynset{
			ID:     s.id,
			Labels: s.labels,
			Gloss:  s.gloss,
			Parent: s.parent,
		})
	}
	return forest, removed
}

// removeCycles walks every parent chain with a per-walk visited set. A chain
// that revisits a node holds a cycle; the cycle members are deleted from the
// forest and counted. Nodes already proven to reach a root are memoized so
// the scan touches each synset a constant number of times.
func (b *Builder) removeCycles() int {
	const (
		stateSafe = 1
		stateDead = 2
	)
	state := make(map[string]int, len(b.synsets))

	for id := range b.synsets {
		if state[id] != 0 {
			continue
		}

		chain := []string{}
		onChain := make(map[string]int)
		cur := id
		for {
			if state[cur] != 0 {
				// Chain joins an already-classified node. Even when that
				// node is dead, the chain itself is acyclic: its members
				// survive and re-root once the dead parent is cleared.
				for _, n := range chain {
					state[n] = stateSafe
				}
				break
			}
			if pos, seen := onChain[cur]; seen {
				// chain[pos:] is the cycle; everything before it survives.
				for _, n := range chain[pos:] {
					state[n] = stateDead
				}
				for _, n := range chain[:pos] {
					state[n] = stateSafe
				}
				break
			}

			onChain[cur] = len(chain)
			chain = append(chain, cur)

			s, ok := b.synsets[cur]
			if !ok || s.parent == "" {
				for _, n := range chain {
					state[n] = stateSafe
				}
				break
			}
			cur = s.parent
		}
	}

	removed := 0
	for id, st := range state {
		if st == stateDead {
			delete(b.synsets, id)
			removed++
		}
	}
	return removed
}

func (b *Builder) provisional(id string) *provisionalSynset {
	if s, ok := b.synsets[id]; ok {
		return s
	}
	s := &provisionalSynset{id: id}
	b.synsets[id] = s
	return s
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
