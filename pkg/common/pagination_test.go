package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "imagenet-browser/pkg/errors"
)

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{Offset: 40, Limit: 20}

	decoded, err := DecodeCursor(original.Encode())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeCursorRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!"},
		{"not json", "bm90LWpzb24"},
		{"negative offset", Cursor{Offset: -1, Limit: 10}.Encode()},
		{"zero limit", Cursor{Offset: 0, Limit: 0}.Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestExtractCursor(t *testing.T) {
	t.Run("defaults without parameters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/synsets/", nil)
		cursor, err := ExtractCursor(r, 100)
		require.NoError(t, err)
		assert.Equal(t, Cursor{Offset: 0, Limit: DefaultPageSize}, cursor)
	})

	t.Run("cursor parameter wins", func(t *testing.T) {
		token := Cursor{Offset: 60, Limit: 30}.Encode()
		r := httptest.NewRequest("GET", "/api/synsets/?cursor="+token, nil)
		cursor, err := ExtractCursor(r, 100)
		require.NoError(t, err)
		assert.Equal(t, Cursor{Offset: 60, Limit: 30}, cursor)
	})

	t.Run("limit overrides cursor limit", func(t *testing.T) {
		token := Cursor{Offset: 60, Limit: 30}.Encode()
		r := httptest.NewRequest("GET", "/api/synsets/?cursor="+token+"&limit=10", nil)
		cursor, err := ExtractCursor(r, 100)
		require.NoError(t, err)
		assert.Equal(t, Cursor{Offset: 60, Limit: 10}, cursor)
	})

	t.Run("limit above maximum is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/synsets/?limit=101", nil)
		_, err := ExtractCursor(r, 100)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("malformed limit is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/synsets/?limit=ten", nil)
		_, err := ExtractCursor(r, 100)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("malformed cursor is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/synsets/?cursor=garbage", nil)
		_, err := ExtractCursor(r, 100)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestPageNavigation(t *testing.T) {
	page := Page{Cursor: Cursor{Offset: 20, Limit: 20}, Total: 50}

	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrev())
	assert.Equal(t, Cursor{Offset: 40, Limit: 20}, page.Cursor.Next())
	assert.Equal(t, Cursor{Offset: 0, Limit: 20}, page.Cursor.Prev())

	first := Page{Cursor: Cursor{Offset: 0, Limit: 20}, Total: 50}
	assert.False(t, first.HasPrev())

	last := Page{Cursor: Cursor{Offset: 40, Limit: 20}, Total: 50}
	assert.False(t, last.HasNext())

	// Prev never goes below zero even from an odd offset.
	odd := Cursor{Offset: 10, Limit: 20}
	assert.Equal(t, Cursor{Offset: 0, Limit: 20}, odd.Prev())
}
