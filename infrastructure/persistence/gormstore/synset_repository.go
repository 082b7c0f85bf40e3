package gormstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"imagenet-browser/application/ports"
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
)

// SynsetRepository implements ports.SynsetRepository on GORM
type SynsetRepository struct {
	db *gorm.DB
}

// NewSynsetRepository creates a synset repository bound to a db handle,
// which may be the root connection or an open transaction.
func NewSynsetRepository(db *gorm.DB) *SynsetRepository {
	return &SynsetRepository{db: db}
}

// Save persists a new synset and its word labels
func (r *SynsetRepository) Save(ctx context.Context, synset *entities.Synset) error {
	row, words := fromSynsetEntity(synset)

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return wrapErr("create synset", "synset", err)
	}
	if len(words) > 0 {
		if err := r.db.WithContext(ctx).Create(&words).Error; err != nil {
			return wrapErr("create synset words", "synset", err)
		}
	}
	return nil
}

// Update rewrites a synset's gloss, parent link and word labels
func (r *SynsetRepository) Update(ctx context.Context, synset *entities.Synset) error {
	row, words := fromSynsetEntity(synset)

	err := r.db.WithContext(ctx).Model(&synsetRow{}).
		Where("wnid = ?", row.WNID).
		Select("gloss", "parent_wnid").
		Updates(map[string]interface{}{
			"gloss":       row.Gloss,
			"parent_wnid": row.ParentWNID,
		}).Error
	if err != nil {
		return wrapErr("update synset", "synset", err)
	}

	// Labels are replaced wholesale; order lives in the position column.
	if err := r.db.WithContext(ctx).Where("synset_wnid = ?", row.WNID).Delete(&wordRow{}).Error; err != nil {
		return wrapErr("update synset words", "synset", err)
	}
	if len(words) > 0 {
		if err := r.db.WithContext(ctx).Create(&words).Error; err != nil {
			return wrapErr("update synset words", "synset", err)
		}
	}
	return nil
}

// GetByID retrieves a synset with its ordered word labels
func (r *SynsetRepository) GetByID(ctx context.Context, id valueobjects.WNID) (*entities.Synset, error) {
	var row synsetRow
	err := r.db.WithContext(ctx).
		Preload("Words").
		First(&row, "wnid = ?", id.String()).Error
	if err != nil {
		return nil, wrapErr("get synset", fmt.Sprintf("synset with WordNet ID of '%s'", id.String()), err)
	}
	return toSynsetEntity(&row)
}

// Exists checks for a synset by wnid without loading it
func (r *SynsetRepository) Exists(ctx context.Context, id valueobjects.WNID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&synsetRow{}).
		Where("wnid = ?", id.String()).
		Count(&count).Error
	if err != nil {
		return false, wrapErr("check synset", "synset", err)
	}
	return count > 0, nil
}

// List retrieves synsets matching the filter plus the total match count.
// Keyword matching and hierarchy scoping run inside the store; only one
// page of entities is ever materialized.
func (r *SynsetRepository) List(ctx context.Context, filter ports.SynsetFilter) ([]*entities.Synset, int64, error) {
	var scopeIDs []string
	if filter.Scope != nil {
		ids, err := r.descendantIDs(ctx, *filter.Scope, filter.Depth)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []*entities.Synset{}, 0, nil
		}
		scopeIDs = ids
	}

	if filter.Keyword != "" {
		return r.listByKeyword(ctx, filter, scopeIDs)
	}

	query := r.db.WithContext(ctx).Model(&synsetRow{})
	if scopeIDs != nil {
		query = query.Where("wnid IN ?", scopeIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count synsets", "synset", err)
	}

	var rows []synsetRow
	err := query.Preload("Words").
		Order("wnid ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("list synsets", "synset", err)
	}

	return rowsToEntities(rows, total)
}

// listByKeyword matches the keyword case-insensitively against word labels
// and orders by the lexically smallest matched label per synset.
func (r *SynsetRepository) listByKeyword(ctx context.Context, filter ports.SynsetFilter, scopeIDs []string) ([]*entities.Synset, int64, error) {
	pattern := "%" + strings.ToLower(filter.Keyword) + "%"

	matches := r.db.WithContext(ctx).Model(&wordRow{}).
		Select("synset_wnid, MIN(label) AS matched_label").
		Where("LOWER(label) LIKE ?", pattern).
		Group("synset_wnid")
	if scopeIDs != nil {
		matches = matches.Where("synset_wnid IN ?", scopeIDs)
	}

	var total int64
	err := r.db.WithContext(ctx).Table("(?) AS matches", matches).Count(&total).Error
	if err != nil {
		return nil, 0, wrapErr("count synsets", "synset", err)
	}

	var matched []struct {
		SynsetWNID   string `gorm:"column:synset_wnid"`
		MatchedLabel string `gorm:"column:matched_label"`
	}
	err = r.db.WithContext(ctx).Table("(?) AS matches", matches).
		Order("matched_label ASC, synset_wnid ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Scan(&matched).Error
	if err != nil {
		return nil, 0, wrapErr("list synsets", "synset", err)
	}
	if len(matched) == 0 {
		return []*entities.Synset{}, total, nil
	}

	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.SynsetWNID)
	}

	var rows []synsetRow
	err = r.db.WithContext(ctx).Preload("Words").
		Where("wnid IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("list synsets", "synset", err)
	}

	// Restore relevance order lost by the IN query.
	byID := make(map[string]synsetRow, len(rows))
	for _, row := range rows {
		byID[row.WNID] = row
	}
	ordered := make([]synsetRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}

	return rowsToEntities(ordered, total)
}

// descendantIDs walks the hierarchy breadth-first, one store query per
// level, collecting every descendant of root down to maxDepth levels
// (zero means unlimited).
func (r *SynsetRepository) descendantIDs(ctx context.Context, root valueobjects.WNID, maxDepth int) ([]string, error) {
	var all []string
	frontier := []string{root.String()}

	for depth := 0; len(frontier) > 0; depth++ {
		if maxDepth > 0 && depth >= maxDepth {
			break
		}
		var next []string
		err := r.db.WithContext(ctx).Model(&synsetRow{}).
			Where("parent_wnid IN ?", frontier).
			Order("wnid ASC").
			Pluck("wnid", &next).Error
		if err != nil {
			return nil, wrapErr("walk descendants", "synset", err)
		}
		all = append(all, next...)
		frontier = next
	}

	return all, nil
}

// Children retrieves one page of a synset's direct children ordered by wnid.
// A limit of zero returns all children.
func (r *SynsetRepository) Children(ctx context.Context, id valueobjects.WNID, offset, limit int) ([]*entities.Synset, int64, error) {
	query := r.db.WithContext(ctx).Model(&synsetRow{}).
		Where("parent_wnid = ?", id.String())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count children", "synset", err)
	}

	listQuery := query.Preload("Words").Order("wnid ASC").Offset(offset)
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}

	var rows []synsetRow
	if err := listQuery.Find(&rows).Error; err != nil {
		return nil, 0, wrapErr("list children", "synset", err)
	}

	return rowsToEntities(rows, total)
}

// CountChildren returns the number of direct children
func (r *SynsetRepository) CountChildren(ctx context.Context, id valueobjects.WNID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&synsetRow{}).
		Where("parent_wnid = ?", id.String()).
		Count(&count).Error
	if err != nil {
		return 0, wrapErr("count children", "synset", err)
	}
	return count, nil
}

// Delete removes a synset with its words and images. The FK schema cascades
// too, but explicit deletes keep behavior identical across drivers.
func (r *SynsetRepository) Delete(ctx context.Context, id valueobjects.WNID) error {
	wnid := id.String()
	if err := r.db.WithContext(ctx).Where("synset_wnid = ?", wnid).Delete(&imageRow{}).Error; err != nil {
		return wrapErr("delete synset images", "synset", err)
	}
	if err := r.db.WithContext(ctx).Where("synset_wnid = ?", wnid).Delete(&wordRow{}).Error; err != nil {
		return wrapErr("delete synset words", "synset", err)
	}
	if err := r.db.WithContext(ctx).Where("wnid = ?", wnid).Delete(&synsetRow{}).Error; err != nil {
		return wrapErr("delete synset", "synset", err)
	}
	return nil
}

func rowsToEntities(rows []synsetRow, total int64) ([]*entities.Synset, int64, error) {
	synsets := make([]*entities.Synset, 0, len(rows))
	for i := range rows {
		synset, err := toSynsetEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		synsets = append(synsets, synset)
	}
	return synsets, total, nil
}
