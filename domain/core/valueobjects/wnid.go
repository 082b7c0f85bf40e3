package valueobjects

import (
	"errors"
	"regexp"
)

// wnidPattern matches a WordNet noun synset identifier: the letter n
// followed by exactly eight digits.
var wnidPattern = regexp.MustCompile(`^n[0-9]{8}$`)

// WNID is a value object representing a WordNet synset identifier
// Value objects are immutable and have no identity beyond their value
type WNID struct {
	value string
}

// NewWNID creates a WNID from an existing string
func NewWNID(id string) (WNID, error) {
	if id == "" {
		return WNID{}, errors.New("wnid cannot be empty")
	}
	if !wnidPattern.MatchString(id) {
		return WNID{}, errors.New("wnid must be the letter n followed by 8 digits")
	}
	return WNID{value: id}, nil
}

// String returns the string representation of the WNID
func (id WNID) String() string {
	return id.value
}

// Equals checks if two WNIDs are equal
func (id WNID) Equals(other WNID) bool {
	return id.value == other.value
}

// IsZero checks if the WNID is the zero value
func (id WNID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id WNID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *WNID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("wnid must be a string")
	}
	parsed, err := NewWNID(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsValidWNID reports whether a string is a well-formed WNID
func IsValidWNID(s string) bool {
	return wnidPattern.MatchString(s)
}
