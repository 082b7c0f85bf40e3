package handlers

import (
	"context"
	"net/http"
	"net/url"
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

// SynsetHandler serves the taxonomy resources: the synset collection,
// single synsets, and the per-synset hyponym collection.
type SynsetHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *qrybus.QueryBus
	cfg        *config.Config
	logger     *zap.Logger
}

// NewSynsetHandler creates the handler
func NewSynsetHandler(commandBus *cmdbus.CommandBus, queryBus *qrybus.QueryBus, cfg *config.Config, logger *zap.Logger) *SynsetHandler {
	return &SynsetHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		cfg:        cfg,
		logger:     logger,
	}
}

// storeContext bounds a request's store work by the configured timeout.
func (h *SynsetHandler) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
}

// List handles GET /api/synsets/
func (h *SynsetHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := common.ExtractCursor(r, h.cfg.MaxPageSize)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	query := queries.ListSynsetsQuery{
		Keyword:   r.URL.Query().Get("q"),
		ScopeWNID: r.URL.Query().Get("scope"),
		Offset:    cursor.Offset,
		Limit:     cursor.Limit,
	}
	if depth := r.URL.Query().Get("depth"); depth != "" {
		n, err := strconv.Atoi(depth)
		if err != nil || n < 0 {
			common.RespondAppError(w, r,
				pkgerrors.NewValidationError("depth must be a non-negative integer"))
			return
		}
		query.Depth = n
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, query)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}
	listed := result.(queries.ListSynsetsResult)

	// Filter parameters survive into the next/prev links so a client can
	// walk a filtered collection with nothing but the controls.
	params := url.Values{}
	for _, key := range []string{"q", "scope", "depth"} {
		if v := r.URL.Query().Get(key); v != "" {
			params.Set(key, v)
		}
	}

	page := common.Page{Cursor: cursor, Total: listed.Total}
	common.RespondDocument(w, http.StatusOK,
		SynsetCollectionDocument(listed.Synsets, page, params))
}

// Create handles POST /api/synsets/
func (h *SynsetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req synsetRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.CreateSynsetCommand{
		WNID:       req.WNID,
		Words:      req.Words,
		Gloss:      req.Gloss,
		ParentWNID: req.ParentWNID,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondCreated(w, SynsetURL(req.WNID))
}

// Get handles GET /api/synsets/{wnid}/
func (h *SynsetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.GetSynsetQuery{
		WNID: chi.URLParam(r, "wnid"),
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondDocument(w, http.StatusOK,
		SynsetDocument(result.(queries.GetSynsetResult)))
}

// Update handles PUT /api/synsets/{wnid}/
func (h *SynsetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req synsetEditRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.UpdateSynsetCommand{
		WNID:  chi.URLParam(r, "wnid"),
		Words: req.Words,
		Gloss: req.Gloss,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// Delete handles DELETE /api/synsets/{wnid}/
func (h *SynsetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.DeleteSynsetCommand{WNID: chi.URLParam(r, "wnid")}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// ListHyponyms handles GET /api/synsets/{wnid}/hyponyms/
func (h *SynsetHandler) ListHyponyms(w http.ResponseWriter, r *http.Request) {
	cursor, err := common.ExtractCursor(r, h.cfg.MaxPageSize)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.ListHyponymsQuery{
		WNID:   chi.URLParam(r, "wnid"),
		Offset: cursor.Offset,
		Limit:  cursor.Limit,
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	page := common.Page{Cursor: cursor, Total: result.(queries.ListHyponymsResult).Total}
	common.RespondDocument(w, http.StatusOK,
		HyponymCollectionDocument(result.(queries.ListHyponymsResult), page))
}

// LinkHyponym handles POST /api/synsets/{wnid}/hyponyms/
func (h *SynsetHandler) LinkHyponym(w http.ResponseWriter, r *http.Request) {
	var req hyponymRequest
	if !readJSON(w, r, &req) {
		return
	}

	parentWNID := chi.URLParam(r, "wnid")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.LinkHyponymCommand{
		ParentWNID: parentWNID,
		ChildWNID:  req.WNID,
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondCreated(w, HyponymURL(parentWNID, req.WNID))
}

// GetHyponym handles GET /api/synsets/{wnid}/hyponyms/{child_wnid}/
func (h *SynsetHandler) GetHyponym(w http.ResponseWriter, r *http.Request) {
	parentWNID := chi.URLParam(r, "wnid")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	result, err := h.queryBus.Ask(ctx, queries.GetHyponymQuery{
		ParentWNID: parentWNID,
		ChildWNID:  chi.URLParam(r, "child_wnid"),
	})
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondDocument(w, http.StatusOK,
		HyponymDocument(parentWNID, result.(queries.GetHyponymResult).Child))
}

// DetachHyponym handles DELETE /api/synsets/{wnid}/hyponyms/{child_wnid}/
func (h *SynsetHandler) DetachHyponym(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	cmd := commands.DetachHyponymCommand{
		ParentWNID: chi.URLParam(r, "wnid"),
		ChildWNID:  chi.URLParam(r, "child_wnid"),
	}
	if err := h.commandBus.Send(ctx, cmd); err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondNoContent(w)
}
