package handlers

import (
	"context"
	"fmt"

	"imagenet-browser/application/commands"
	"imagenet-browser/application/commands/bus"
	"imagenet-browser/application/ports"
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
	pkgerrors "imagenet-browser/pkg/errors"

	"go.uber.org/zap"
)

// CreateSynsetHandler handles synset creation
type CreateSynsetHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewCreateSynsetHandler creates the handler
func NewCreateSynsetHandler(uow ports.UnitOfWork, logger *zap.Logger) *CreateSynsetHandler {
	return &CreateSynsetHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *CreateSynsetHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.CreateSynsetCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	id, err := valueobjects.NewWNID(c.WNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	synset, err := entities.NewSynset(id, c.Words, c.Gloss)
	if err != nil {
		return err
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		exists, err := repos.Synsets.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return pkgerrors.NewConflictError(
				fmt.Sprintf("synset with WordNet ID of '%s' already exists", c.WNID))
		}

		if c.ParentWNID != "" {
			parentID, err := valueobjects.NewWNID(c.ParentWNID)
			if err != nil {
				return pkgerrors.NewValidationError(err.Error())
			}
			parentExists, err := repos.Synsets.Exists(ctx, parentID)
			if err != nil {
				return err
			}
			if !parentExists {
				return pkgerrors.NewNotFoundError(
					fmt.Sprintf("synset with WordNet ID of '%s'", c.ParentWNID))
			}
			if err := synset.SetParent(parentID); err != nil {
				return err
			}
		}

		return repos.Synsets.Save(ctx, synset)
	})
}

// UpdateSynsetHandler handles synset metadata edits
type UpdateSynsetHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewUpdateSynsetHandler creates the handler
func NewUpdateSynsetHandler(uow ports.UnitOfWork, logger *zap.Logger) *UpdateSynsetHandler {
	return &UpdateSynsetHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *UpdateSynsetHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateSynsetCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	id, err := valueobjects.NewWNID(c.WNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		synset, err := repos.Synsets.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := synset.UpdateWords(c.Words); err != nil {
			return err
		}
		synset.UpdateGloss(c.Gloss)

		return repos.Synsets.Update(ctx, synset)
	})
}

// DeleteSynsetHandler handles synset deletion. A synset with children is
// never deleted; removing it would silently orphan the whole subtree.
type DeleteSynsetHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewDeleteSynsetHandler creates the handler
func NewDeleteSynsetHandler(uow ports.UnitOfWork, logger *zap.Logger) *DeleteSynsetHandler {
	return &DeleteSynsetHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *DeleteSynsetHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteSynsetCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	id, err := valueobjects.NewWNID(c.WNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		exists, err := repos.Synsets.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return pkgerrors.NewNotFoundError(
				fmt.Sprintf("synset with WordNet ID of '%s'", c.WNID))
		}

		children, err := repos.Synsets.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return pkgerrors.NewConflictError(
				fmt.Sprintf("synset with WordNet ID of '%s' has %d hyponyms and cannot be deleted", c.WNID, children))
		}

		h.logger.Info("Deleting synset", zap.String("wnid", c.WNID))
		return repos.Synsets.Delete(ctx, id)
	})
}

// LinkHyponymHandler attaches an existing synset as a hyponym of another.
// Only root synsets may be linked; anything else would re-parent a subtree.
type LinkHyponymHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewLinkHyponymHandler creates the handler
func NewLinkHyponymHandler(uow ports.UnitOfWork, logger *zap.Logger) *LinkHyponymHandler {
	return &LinkHyponymHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *LinkHyponymHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.LinkHyponymCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	parentID, err := valueobjects.NewWNID(c.ParentWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	childID, err := valueobjects.NewWNID(c.ChildWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		parentExists, err := repos.Synsets.Exists(ctx, parentID)
		if err != nil {
			return err
		}
		if !parentExists {
			return pkgerrors.NewNotFoundError(
				fmt.Sprintf("synset with WordNet ID of '%s'", c.ParentWNID))
		}

		child, err := repos.Synsets.GetByID(ctx, childID)
		if err != nil {
			return err
		}

		if existing := child.ParentID(); existing != nil {
			if existing.Equals(parentID) {
				return pkgerrors.NewConflictError(
					fmt.Sprintf("synset hyponym with WordNet ID of '%s' already exists", c.ChildWNID))
			}
			return pkgerrors.NewConflictError(
				fmt.Sprintf("synset with WordNet ID of '%s' already has a parent", c.ChildWNID))
		}

		// Linking a synset under one of its own descendants would close
		// a parent loop; walk the ancestor chain before committing.
		ancestor := parentID
		for {
			if ancestor.Equals(childID) {
				return pkgerrors.NewConflictError(
					fmt.Sprintf("synset with WordNet ID of '%s' is an ancestor of '%s'", c.ChildWNID, c.ParentWNID))
			}
			node, err := repos.Synsets.GetByID(ctx, ancestor)
			if err != nil {
				return err
			}
			next := node.ParentID()
			if next == nil {
				break
			}
			ancestor = *next
		}

		if err := child.SetParent(parentID); err != nil {
			return err
		}

		return repos.Synsets.Update(ctx, child)
	})
}

// DetachHyponymHandler detaches a hyponym from its parent, making it a root.
type DetachHyponymHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewDetachHyponymHandler creates the handler
func NewDetachHyponymHandler(uow ports.UnitOfWork, logger *zap.Logger) *DetachHyponymHandler {
	return &DetachHyponymHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *DetachHyponymHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DetachHyponymCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	parentID, err := valueobjects.NewWNID(c.ParentWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	childID, err := valueobjects.NewWNID(c.ChildWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		child, err := repos.Synsets.GetByID(ctx, childID)
		if err != nil {
			return err
		}

		if existing := child.ParentID(); existing == nil || !existing.Equals(parentID) {
			return pkgerrors.NewNotFoundError(
				fmt.Sprintf("synset hyponym with WordNet ID of '%s'", c.ChildWNID))
		}

		child.DetachParent()
		return repos.Synsets.Update(ctx, child)
	})
}
