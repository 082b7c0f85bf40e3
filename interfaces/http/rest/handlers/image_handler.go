package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"imagenet-browser/application/commands"
	cmdbus "imagenet-browser/application/commands/bus"
	"imagenet-browser/application/queries"
	qrybus "imagenet-browser/application/queries/bus"
	"imagenet-browser/infrastructure/config"
	"imagenet-browser/pkg/common"
	pkgerrors "imagenet-browser/pkg/errors"
)

// ImageHandler serves image resources, both inside a synset's namespace and
// as the taxonomy-wide collection.
type ImageHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *qrybus.QueryBus
	cfg        *config.Config
	logger     *zap.Logger
}

// NewImageHandler creates the handler
func NewImageHandler(commandBus *cmdbus.CommandBus, queryBus *qrybus.QueryBus, cfg *config.Config, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		cfg:        cfg,
		logger:     logger,
	}
}

func (h *ImageHandler) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
}

// imageID parses the {image_id} path segment. It answers the request itself
// when the segment is not a positive integer.
func imageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "image_id"), 10, 64)
	if err != nil || id <= 0 {
		common.RespondAppError(w, r,
			pkgerrors.NewValidationError("image id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// ListBySynset handles GET /api/synsets/{wnid}/images/
func (h *ImageHandler) ListBySynset(w http.ResponseWriter, r *http.Request) {
	cursor, err := common.ExtractCursor(r, h.cfg.MaxPageSize)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	wnid := chi.URLParam(r, "wnid")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.ListSynsetImagesQuery{
		SynsetWNID: wnid,
		Offset:     cursor.Offset,
		Limit:      cursor.Limit,
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}
	listed := result.(queries.ListImagesResult)

	page := common.Page{Cursor: cursor, Total: listed.Total}
	common.RespondDocument(w, http.StatusOK,
		SynsetImageCollectionDocument(wnid, listed.Images, page))
}

// Create handles POST /api/synsets/{wnid}/images/
func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !readJSON(w, r, &req) {
		return
	}

	wnid := chi.URLParam(r, "wnid")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.CreateImageCommand{
		SynsetWNID: wnid,
		URL:        req.URL,
		SeenAt:     req.SeenAt,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	// The store assigns the image id, so the fresh row is re-read by its
	// (synset, url) natural key to build the Location.
	result, err := h.queryBus.Ask(ctx, queries.GetImageByURLQuery{
		SynsetWNID: wnid,
		URL:        req.URL,
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	created := result.(queries.GetImageResult).Image
	common.RespondCreated(w, ImageURL(wnid, created.ID()))
}

// Get handles GET /api/synsets/{wnid}/images/{image_id}/
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.GetImageQuery{
		SynsetWNID: chi.URLParam(r, "wnid"),
		ImageID:    id,
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondDocument(w, http.StatusOK,
		ImageDocument(result.(queries.GetImageResult).Image))
}

// Update handles PUT /api/synsets/{wnid}/images/{image_id}/
func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(w, r)
	if !ok {
		return
	}

	var req imageRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.UpdateImageCommand{
		SynsetWNID: chi.URLParam(r, "wnid"),
		ImageID:    id,
		URL:        req.URL,
		SeenAt:     req.SeenAt,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// Delete handles DELETE /api/synsets/{wnid}/images/{image_id}/
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.DeleteImageCommand{
		SynsetWNID: chi.URLParam(r, "wnid"),
		ImageID:    id,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// ListAll handles GET /api/images/
func (h *ImageHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	cursor, err := common.ExtractCursor(r, h.cfg.MaxPageSize)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.ListImagesQuery{
		Offset: cursor.Offset,
		Limit:  cursor.Limit,
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}
	listed := result.(queries.ListImagesResult)

	page := common.Page{Cursor: cursor, Total: listed.Total}
	common.RespondDocument(w, http.StatusOK,
		ImageCollectionDocument(listed.Images, page))
}
