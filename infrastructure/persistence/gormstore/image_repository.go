package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
)

// ImageRepository implements ports.ImageRepository on GORM
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates an image repository bound to a db handle
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Save persists a new image and returns it with its store-assigned id
func (r *ImageRepository) Save(ctx context.Context, image *entities.Image) (*entities.Image, error) {
	row := fromImageEntity(image)
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, wrapErr("create image", "image", err)
	}
	return toImageEntity(row)
}

// Update persists changes to an existing image
func (r *ImageRepository) Update(ctx context.Context, image *entities.Image) error {
	row := fromImageEntity(image)
	err := r.db.WithContext(ctx).Model(&imageRow{}).
		Where("id = ? AND synset_wnid = ?", row.ID, row.SynsetWNID).
		Updates(map[string]interface{}{
			"url":     row.URL,
			"seen_at": row.SeenAt,
		}).Error
	if err != nil {
		return wrapErr("update image", "image", err)
	}
	return nil
}

// GetByID retrieves an image inside its owning synset's namespace
func (r *ImageRepository) GetByID(ctx context.Context, synsetID valueobjects.WNID, id int64) (*entities.Image, error) {
	var row imageRow
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND synset_wnid = ?", id, synsetID.String()).Error
	if err != nil {
		return nil, wrapErr("get image",
			fmt.Sprintf("image with WordNet ID of '%s' and image ID of '%d'", synsetID.String(), id), err)
	}
	return toImageEntity(&row)
}

// GetByURL retrieves an image by its (synset, url) natural key
func (r *ImageRepository) GetByURL(ctx context.Context, synsetID valueobjects.WNID, url string) (*entities.Image, error) {
	var row imageRow
	err := r.db.WithContext(ctx).
		First(&row, "synset_wnid = ? AND url = ?", synsetID.String(), url).Error
	if err != nil {
		return nil, wrapErr("get image", "image", err)
	}
	return toImageEntity(&row)
}

// ExistsURL checks for an image by its (synset, url) natural key
func (r *ImageRepository) ExistsURL(ctx context.Context, synsetID valueobjects.WNID, url string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&imageRow{}).
		Where("synset_wnid = ? AND url = ?", synsetID.String(), url).
		Count(&count).Error
	if err != nil {
		return false, wrapErr("check image", "image", err)
	}
	return count > 0, nil
}

// ListBySynset retrieves one page of a synset's images ordered by id
func (r *ImageRepository) ListBySynset(ctx context.Context, synsetID valueobjects.WNID, offset, limit int) ([]*entities.Image, int64, error) {
	query := r.db.WithContext(ctx).Model(&imageRow{}).
		Where("synset_wnid = ?", synsetID.String())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count images", "image", err)
	}

	var rows []imageRow
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("list images", "image", err)
	}

	return imageRowsToEntities(rows, total)
}

// ListAll retrieves one page of images across the taxonomy
func (r *ImageRepository) ListAll(ctx context.Context, offset, limit int) ([]*entities.Image, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&imageRow{}).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count images", "image", err)
	}

	var rows []imageRow
	err := r.db.WithContext(ctx).Model(&imageRow{}).
		Order("synset_wnid ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("list images", "image", err)
	}

	return imageRowsToEntities(rows, total)
}

// CountBySynset returns the number of images owned by a synset
func (r *ImageRepository) CountBySynset(ctx context.Context, synsetID valueobjects.WNID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&imageRow{}).
		Where("synset_wnid = ?", synsetID.String()).
		Count(&count).Error
	if err != nil {
		return 0, wrapErr("count images", "image", err)
	}
	return count, nil
}

// Delete removes a single image
func (r *ImageRepository) Delete(ctx context.Context, synsetID valueobjects.WNID, id int64) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND synset_wnid = ?", id, synsetID.String()).
		Delete(&imageRow{}).Error
	if err != nil {
		return wrapErr("delete image", "image", err)
	}
	return nil
}

func imageRowsToEntities(rows []imageRow, total int64) ([]*entities.Image, int64, error) {
	images := make([]*entities.Image, 0, len(rows))
	for i := range rows {
		image, err := toImageEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		images = append(images, image)
	}
	return images, total, nil
}
