package handlers

import (
	"context"
	"fmt"

	"imagenet-browser/application/ports"
	"imagenet-browser/application/queries"
	"imagenet-browser/application/queries/bus"
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"

	"go.uber.org/zap"
)

// GetImageHandler resolves a single image
type GetImageHandler struct {
	images ports.ImageRepository
	logger *zap.Logger
}

// NewGetImageHandler creates the handler
func NewGetImageHandler(images ports.ImageRepository, logger *zap.Logger) *GetImageHandler {
	return &GetImageHandler{images: images, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetImageHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetImageQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	synsetID, err := valueobjects.NewWNID(q.SynsetWNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	image, err := h.images.GetByID(ctx, synsetID, q.ImageID)
	if err != nil {
		return nil, err
	}

	return queries.GetImageResult{Image: image}, nil
}

// GetImageByURLHandler resolves an image by its natural key, used to locate
// a freshly created image for the Location header
type GetImageByURLHandler struct {
	images ports.ImageRepository
	logger *zap.Logger
}

// NewGetImageByURLHandler creates the handler
func NewGetImageByURLHandler(images ports.ImageRepository, logger *zap.Logger) *GetImageByURLHandler {
	return &GetImageByURLHandler{images: images, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetImageByURLHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetImageByURLQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	synsetID, err := valueobjects.NewWNID(q.SynsetWNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	image, err := h.images.GetByURL(ctx, synsetID, q.URL)
	if err != nil {
		return nil, err
	}

	return queries.GetImageResult{Image: image}, nil
}

// ListSynsetImagesHandler resolves one page of a synset's images
type ListSynsetImagesHandler struct {
	synsets ports.SynsetRepository
	images  ports.ImageRepository
	logger  *zap.Logger
}

// NewListSynsetImagesHandler creates the handler
func NewListSynsetImagesHandler(synsets ports.SynsetRepository, images ports.ImageRepository, logger *zap.Logger) *ListSynsetImagesHandler {
	return &ListSynsetImagesHandler{synsets: synsets, images: images, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListSynsetImagesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListSynsetImagesQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	synsetID, err := valueobjects.NewWNID(q.SynsetWNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	exists, err := h.synsets.Exists(ctx, synsetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.NewNotFoundError(
			fmt.Sprintf("synset with WordNet ID of '%s'", q.SynsetWNID))
	}

	images, total, err := h.images.ListBySynset(ctx, synsetID, q.Offset, q.Limit)
	if err != nil {
		return nil, err
	}

	return queries.ListImagesResult{Images: images, Total: total}, nil
}

// ListImagesHandler pages through images across the whole taxonomy
type ListImagesHandler struct {
	images ports.ImageRepository
	logger *zap.Logger
}

// NewListImagesHandler creates the handler
func NewListImagesHandler(images ports.ImageRepository, logger *zap.Logger) *ListImagesHandler {
	return &ListImagesHandler{images: images, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListImagesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListImagesQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	images, total, err := h.images.ListAll(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, err
	}

	return queries.ListImagesResult{Images: images, Total: total}, nil
}
