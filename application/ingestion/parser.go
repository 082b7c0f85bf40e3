// Package ingestion turns the four raw ImageNet dump files into the
// normalized taxonomy: streaming parsers produce one record at a time, the
// builder folds them into a validated forest, and the orchestrator writes
// the result through the store in bounded transactional batches.
package ingestion

import (
	"bufio"
	"io"
	"strings"

	"imagenet-browser/domain/core/valueobjects"
)

// maxLineBytes bounds a single source line; URL lines in the image dump can
// run long but never near this.
const maxLineBytes = 1 << 20

// WordRecord is one line of words.txt: a synset id and its ordered labels.
type WordRecord struct {
	SynsetID string
	Labels   []string
}

// GlossRecord is one line of gloss.txt.
type GlossRecord struct {
	SynsetID string
	Gloss    string
}

// RelationRecord is one line of wordnet.is_a.txt: a parent/child id pair.
type RelationRecord struct {
	ParentID string
	ChildID  string
}

// ImageRecord is one line of the image URL dump. The synset id is the
// prefix of the compound image identifier before the first underscore.
type ImageRecord struct {
	SynsetID string
	URL      string
}

// lineScanner drives a bufio.Scanner and keeps the malformed-line count.
// Each source file gets its own scanner, so parsing restarts cleanly per
// file with no cross-file state.
type lineScanner struct {
	scanner *bufio.Scanner
	skipped int
}

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &lineScanner{scanner: s}
}

func (s *lineScanner) next() (string, bool) {
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func (s *lineScanner) skip()        { s.skipped++ }
func (s *lineScanner) Skipped() int { return s.skipped }
func (s *lineScanner) Err() error   { return s.scanner.Err() }

// WordScanner streams WordRecords from a words.txt byte stream.
type WordScanner struct {
	*lineScanner
	record WordRecord
}

// NewWordScanner creates a scanner over a words.txt stream
func NewWordScanner(r io.Reader) *WordScanner {
	return &WordScanner{lineScanner: newLineScanner(r)}
}

// Scan advances to the next well-formed record
func (s *WordScanner) Scan() bool {
	for {
		line, ok := s.next()
		if !ok {
			return false
		}
		id, rest, found := strings.Cut(line, "\t")
		if !found || !valueobjects.IsValidWNID(id) {
			s.skip()
			continue
		}
		labels := splitLabels(rest)
		if len(labels) == 0 {
			s.skip()
			continue
		}
		s.record = WordRecord{SynsetID: id, Labels: labels}
		return true
	}
}

// Record returns the current record
func (s *WordScanner) Record() WordRecord { return s.record }

// GlossScanner streams GlossRecords from a gloss.txt byte stream.
type GlossScanner struct {
	*lineScanner
	record GlossRecord
}

// NewGlossScanner creates a scanner over a gloss.txt stream
func NewGlossScanner(r io.Reader) *GlossScanner {
	return &GlossScanner{lineScanner: newLineScanner(r)}
}

// Scan advances to the next well-formed record
func (s *GlossScanner) Scan() bool {
	for {
		line, ok := s.next()
		if !ok {
			return false
		}
		id, gloss, found := strings.Cut(line, "\t")
		if !found || !valueobjects.IsValidWNID(id) || strings.TrimSpace(gloss) == "" {
			s.skip()
			continue
		}
		s.record = GlossRecord{SynsetID: id, Gloss: strings.TrimSpace(gloss)}
		return true
	}
}

// Record returns the current record
func (s *GlossScanner) Record() GlossRecord { return s.record }

// RelationScanner streams RelationRecords from a wordnet.is_a.txt stream.
type RelationScanner struct {
	*lineScanner
	record RelationRecord
}

// NewRelationScanner creates a scanner over a relation stream
func NewRelationScanner(r io.Reader) *RelationScanner {
	return &RelationScanner{lineScanner: newLineScanner(r)}
}

// Scan advances to the next well-formed record
func (s *RelationScanner) Scan() bool {
	for {
		line, ok := s.next()
		if !ok {
			return false
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !valueobjects.IsValidWNID(fields[0]) || !valueobjects.IsValidWNID(fields[1]) {
			s.skip()
			continue
		}
		s.record = RelationRecord{ParentID: fields[0], ChildID: fields[1]}
		return true
	}
}

// Record returns the current record
func (s *RelationScanner) Record() RelationRecord { return s.record }

// ImageScanner streams ImageRecords from an image URL dump.
type ImageScanner struct {
	*lineScanner
	record ImageRecord
}

// NewImageScanner creates a scanner over an image URL stream
func NewImageScanner(r io.Reader) *ImageScanner {
	return &ImageScanner{lineScanner: newLineScanner(r)}
}

// Scan advances to the next well-formed record
func (s *ImageScanner) Scan() bool {
	for {
		line, ok := s.next()
		if !ok {
			return false
		}
		compound, url, found := strings.Cut(line, "\t")
		if !found {
			s.skip()
			continue
		}
		id, _, hasSuffix := strings.Cut(compound, "_")
		if !hasSuffix || !valueobjects.IsValidWNID(id) {
			s.skip()
			continue
		}
		url = strings.TrimSpace(url)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			s.skip()
			continue
		}
		s.record = ImageRecord{SynsetID: id, URL: url}
		return true
	}
}

// Record returns the current record
func (s *ImageScanner) Record() ImageRecord { return s.record }

// splitLabels breaks a comma-separated label list, trimming and dropping
// empties while keeping source order and per-line uniqueness.
func splitLabels(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}
