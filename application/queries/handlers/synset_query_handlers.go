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

// GetSynsetHandler resolves a synset together with its hierarchy context
type GetSynsetHandler struct {
	synsets ports.SynsetRepository
	images  ports.ImageRepository
	logger  *zap.Logger
}

// NewGetSynsetHandler creates the handler
func NewGetSynsetHandler(synsets ports.SynsetRepository, images ports.ImageRepository, logger *zap.Logger) *GetSynsetHandler {
	return &GetSynsetHandler{synsets: synsets, images: images, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetSynsetHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetSynsetQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	id, err := valueobjects.NewWNID(q.WNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	synset, err := h.synsets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Child ids only; children are paged through their own collection.
	children, _, err := h.synsets.Children(ctx, id, 0, 0)
	if err != nil {
		return nil, err
	}
	childIDs := make([]string, 0, len(children))
	for _, child := range children {
		childIDs = append(childIDs, child.ID().String())
	}

	imageCount, err := h.images.CountBySynset(ctx, id)
	if err != nil {
		return nil, err
	}

	return queries.GetSynsetResult{
		Synset:     synset,
		ChildIDs:   childIDs,
		ImageCount: imageCount,
	}, nil
}

// ListSynsetsHandler translates listing parameters into store queries:
// keyword filtering and hierarchy scoping both run at the store level.
type ListSynsetsHandler struct {
	synsets ports.SynsetRepository
	logger  *zap.Logger
}

// NewListSynsetsHandler creates the handler
func NewListSynsetsHandler(synsets ports.SynsetRepository, logger *zap.Logger) *ListSynsetsHandler {
	return &ListSynsetsHandler{synsets: synsets, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListSynsetsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListSynsetsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	filter := ports.SynsetFilter{
		Keyword: q.Keyword,
		Depth:   q.Depth,
		Offset:  q.Offset,
		Limit:   q.Limit,
	}

	if q.ScopeWNID != "" {
		scope, err := valueobjects.NewWNID(q.ScopeWNID)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		exists, err := h.synsets.Exists(ctx, scope)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, pkgerrors.NewNotFoundError(
				fmt.Sprintf("synset with WordNet ID of '%s'", q.ScopeWNID))
		}
		filter.Scope = &scope
	}

	synsets, total, err := h.synsets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return queries.ListSynsetsResult{Synsets: synsets, Total: total}, nil
}

// ListHyponymsHandler resolves one page of a synset's direct children
type ListHyponymsHandler struct {
	synsets ports.SynsetRepository
	logger  *zap.Logger
}

// NewListHyponymsHandler creates the handler
func NewListHyponymsHandler(synsets ports.SynsetRepository, logger *zap.Logger) *ListHyponymsHandler {
	return &ListHyponymsHandler{synsets: synsets, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListHyponymsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListHyponymsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	id, err := valueobjects.NewWNID(q.WNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	parent, err := h.synsets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hyponyms, total, err := h.synsets.Children(ctx, id, q.Offset, q.Limit)
	if err != nil {
		return nil, err
	}

	return queries.ListHyponymsResult{
		Parent:   parent,
		Hyponyms: hyponyms,
		Total:    total,
	}, nil
}

// GetHyponymHandler resolves a child synset inside its parent's namespace
type GetHyponymHandler struct {
	synsets ports.SynsetRepository
	logger  *zap.Logger
}

// NewGetHyponymHandler creates the handler
func NewGetHyponymHandler(synsets ports.SynsetRepository, logger *zap.Logger) *GetHyponymHandler {
	return &GetHyponymHandler{synsets: synsets, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetHyponymHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetHyponymQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	parentID, err := valueobjects.NewWNID(q.ParentWNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	childID, err := valueobjects.NewWNID(q.ChildWNID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	exists, err := h.synsets.Exists(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.NewNotFoundError(
			fmt.Sprintf("synset with WordNet ID of '%s'", q.ParentWNID))
	}

	child, err := h.synsets.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}

	if p := child.ParentID(); p == nil || !p.Equals(parentID) {
		return nil, pkgerrors.NewNotFoundError(
			fmt.Sprintf("synset hyponym with WordNet ID of '%s'", q.ChildWNID))
	}

	return queries.GetHyponymResult{Child: child}, nil
}
