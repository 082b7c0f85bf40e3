package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordScanner(t *testing.T) {
	input := strings.Join([]string{
		"n01440764\ttench, Tinca tinca",
		"",
		"not-a-wnid\tsomething",
		"n01443537\tgoldfish",
		"n09999999",
		"n01484850\tgreat white shark, white shark, great white shark",
	}, "\n")

	scanner := NewWordScanner(strings.NewReader(input))

	var records []WordRecord
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 3)
	assert.Equal(t, WordRecord{SynsetID: "n01440764", Labels: []string{"tench", "Tinca tinca"}}, records[0])
	assert.Equal(t, WordRecord{SynsetID: "n01443537", Labels: []string{"goldfish"}}, records[1])
	// Per-line duplicate labels collapse.
	assert.Equal(t, []string{"great white shark", "white shark"}, records[2].Labels)
	// Bad wnid and missing tab count as skipped; blank lines do not.
	assert.Equal(t, 2, scanner.Skipped())
}

func TestGlossScanner(t *testing.T) {
	input := strings.Join([]string{
		"n01440764\tfreshwater dace-like game fish",
		"n01443537\t   ",
		"garbage line",
		"n01484850\tlarge aggressive shark ",
	}, "\n")

	scanner := NewGlossScanner(strings.NewReader(input))

	var records []GlossRecord
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 2)
	assert.Equal(t, "freshwater dace-like game fish", records[0].Gloss)
	assert.Equal(t, "large aggressive shark", records[1].Gloss)
	assert.Equal(t, 2, scanner.Skipped())
}

func TestRelationScanner(t *testing.T) {
	input := strings.Join([]string{
		"n01440764 n01443537",
		"n01440764\tn01484850",
		"n01440764",
		"n01440764 bogus",
		"n01440764 n01443537 n01484850",
	}, "\n")

	scanner := NewRelationScanner(strings.NewReader(input))

	var records []RelationRecord
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	require.NoError(t, scanner.Err())

	// Any whitespace separates the pair, so tabs work too.
	require.Len(t, records, 2)
	assert.Equal(t, RelationRecord{ParentID: "n01440764", ChildID: "n01443537"}, records[0])
	assert.Equal(t, RelationRecord{ParentID: "n01440764", ChildID: "n01484850"}, records[1])
	assert.Equal(t, 3, scanner.Skipped())
}

func TestImageScanner(t *testing.T) {
	input := strings.Join([]string{
		"n01440764_18\thttp://example.com/tench.jpg",
		"n01440764_19\tftp://example.com/tench.jpg",
		"n01440764\thttp://example.com/no-suffix.jpg",
		"bogus_1\thttp://example.com/x.jpg",
		"n01443537_4\thttps://example.com/goldfish.jpg  ",
	}, "\n")

	scanner := NewImageScanner(strings.NewReader(input))

	var records []ImageRecord
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 2)
	assert.Equal(t, ImageRecord{SynsetID: "n01440764", URL: "http://example.com/tench.jpg"}, records[0])
	assert.Equal(t, ImageRecord{SynsetID: "n01443537", URL: "https://example.com/goldfish.jpg"}, records[1])
	assert.Equal(t, 3, scanner.Skipped())
}

func TestSplitLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "tench", []string{"tench"}},
		{"multiple", "tench, Tinca tinca", []string{"tench", "Tinca tinca"}},
		{"duplicates collapse", "a, b, a", []string{"a", "b"}},
		{"empties dropped", " , a, ,", []string{"a"}},
		{"all empty", " , ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLabels(tt.raw))
		})
	}
}
