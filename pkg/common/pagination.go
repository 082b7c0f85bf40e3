package common

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "imagenet-browser/pkg/errors"
)

// DefaultPageSize is used when a request carries no limit.
const DefaultPageSize = 20

// Cursor is the decoded form of the opaque pagination token.
type Cursor struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Encode serializes the cursor into its opaque wire form.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque pagination token.
func DecodeCursor(token string) (Cursor, error) {
	var c Cursor
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, apperrors.NewValidationError("pagination cursor is not valid")
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, apperrors.NewValidationError("pagination cursor is not valid")
	}
	if c.Offset < 0 || c.Limit <= 0 {
		return c, apperrors.NewValidationError("pagination cursor is not valid")
	}
	return c, nil
}

// ExtractCursor resolves the pagination window for a request.
// An explicit cursor wins over a bare limit; a limit above maxPageSize is
// rejected rather than silently truncated.
func ExtractCursor(r *http.Request, maxPageSize int) (Cursor, error) {
	cursor := Cursor{Offset: 0, Limit: DefaultPageSize}

	if token := r.URL.Query().Get("cursor"); token != "" {
		decoded, err := DecodeCursor(token)
		if err != nil {
			return cursor, err
		}
		cursor = decoded
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return cursor, apperrors.NewValidationError("limit must be a positive integer")
		}
		cursor.Limit = n
	}

	if cursor.Limit > maxPageSize {
		return cursor, apperrors.NewValidationError(
			"limit exceeds the maximum page size of " + strconv.Itoa(maxPageSize))
	}

	return cursor, nil
}

// Next returns the cursor addressing the following page.
func (c Cursor) Next() Cursor {
	return Cursor{Offset: c.Offset + c.Limit, Limit: c.Limit}
}

// Prev returns the cursor addressing the preceding page, clamped at zero.
func (c Cursor) Prev() Cursor {
	offset := c.Offset - c.Limit
	if offset < 0 {
		offset = 0
	}
	return Cursor{Offset: offset, Limit: c.Limit}
}

// Page describes one window of a collection result.
type Page struct {
	Cursor Cursor
	Total  int64
}

// HasNext reports whether a further page exists.
func (p Page) HasNext() bool {
	return int64(p.Cursor.Offset+p.Cursor.Limit) < p.Total
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Cursor.Offset > 0
}
