package gormstore

import (
	"sort"

	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"
)

// synsetRow is the persistence model for a synset. The parent pointer keeps
// the hierarchy a forest: one nullable FK into the same table.
type synsetRow struct {
	WNID       string  `gorm:"column:wnid;primaryKey;size:9"`
	Gloss      string  `gorm:"column:gloss;size:512"`
	ParentWNID *string `gorm:"column:parent_wnid;size:9;index"`

	Words  []wordRow  `gorm:"foreignKey:SynsetWNID;references:WNID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Images []imageRow `gorm:"foreignKey:SynsetWNID;references:WNID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (synsetRow) TableName() string { return "synsets" }

// wordRow is one label of a synset. Uniqueness is per synset, not global;
// homonyms across synsets are expected.
type wordRow struct {
	ID         uint   `gorm:"primaryKey"`
	SynsetWNID string `gorm:"column:synset_wnid;size:9;uniqueIndex:idx_words_synset_label"`
	Label      string `gorm:"column:label;size:256;uniqueIndex:idx_words_synset_label"`
	Position   int    `gorm:"column:position"`
}

func (wordRow) TableName() string { return "words" }

// imageRow is the persistence model for an image. The URL is unique inside
// its synset only.
type imageRow struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SynsetWNID string `gorm:"column:synset_wnid;size:9;index;uniqueIndex:idx_images_synset_url"`
	URL        string `gorm:"column:url;size:512;uniqueIndex:idx_images_synset_url"`
	SeenAt     string `gorm:"column:seen_at;size:10"`
}

func (imageRow) TableName() string { return "images" }

// toSynsetEntity rebuilds the domain entity from its rows.
func toSynsetEntity(row *synsetRow) (*entities.Synset, error) {
	id, err := valueobjects.NewWNID(row.WNID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode synset", err)
	}

	var parent *valueobjects.WNID
	if row.ParentWNID != nil {
		p, err := valueobjects.NewWNID(*row.ParentWNID)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode synset parent", err)
		}
		parent = &p
	}

	sort.Slice(row.Words, func(i, j int) bool {
		return row.Words[i].Position < row.Words[j].Position
	})
	words := make([]string, 0, len(row.Words))
	for _, w := range row.Words {
		words = append(words, w.Label)
	}

	return entities.ReconstructSynset(id, words, row.Gloss, parent), nil
}

// fromSynsetEntity maps the domain entity onto its persistence rows.
func fromSynsetEntity(synset *entities.Synset) (*synsetRow, []wordRow) {
	row := &synsetRow{
		WNID:  synset.ID().String(),
		Gloss: synset.Gloss(),
	}
	if parent := synset.ParentID(); parent != nil {
		p := parent.String()
		row.ParentWNID = &p
	}

	words := synset.Words()
	wordRows := make([]wordRow, 0, len(words))
	for i, label := range words {
		wordRows = append(wordRows, wordRow{
			SynsetWNID: row.WNID,
			Label:      label,
			Position:   i,
		})
	}
	return row, wordRows
}

// toImageEntity rebuilds the domain entity from its row.
func toImageEntity(row *imageRow) (*entities.Image, error) {
	synsetID, err := valueobjects.NewWNID(row.SynsetWNID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode image", err)
	}
	return entities.ReconstructImage(row.ID, synsetID, row.URL, row.SeenAt), nil
}

// fromImageEntity maps the domain entity onto its persistence row.
func fromImageEntity(image *entities.Image) *imageRow {
	return &imageRow{
		ID:         image.ID(),
		SynsetWNID: image.SynsetID().String(),
		URL:        image.URL(),
		SeenAt:     image.SeenAt(),
	}
}
