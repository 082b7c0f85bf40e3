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

// CreateImageHandler attaches a new image to an existing synset
type CreateImageHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewCreateImageHandler creates the handler
func NewCreateImageHandler(uow ports.UnitOfWork, logger *zap.Logger) *CreateImageHandler {
	return &CreateImageHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *CreateImageHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.CreateImageCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	synsetID, err := valueobjects.NewWNID(c.SynsetWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	image, err := entities.NewImage(synsetID, c.URL, c.SeenAt)
	if err != nil {
		return err
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		exists, err := repos.Synsets.Exists(ctx, synsetID)
		if err != nil {
			return err
		}
		if !exists {
			return pkgerrors.NewNotFoundError(
				fmt.Sprintf("synset with WordNet ID of '%s'", c.SynsetWNID))
		}

		dup, err := repos.Images.ExistsURL(ctx, synsetID, image.URL())
		if err != nil {
			return err
		}
		if dup {
			return pkgerrors.NewConflictError(
				fmt.Sprintf("image with URL of '%s' already exists for synset '%s'", image.URL(), c.SynsetWNID))
		}

		_, err = repos.Images.Save(ctx, image)
		return err
	})
}

// UpdateImageHandler edits an existing image
type UpdateImageHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewUpdateImageHandler creates the handler
func NewUpdateImageHandler(uow ports.UnitOfWork, logger *zap.Logger) *UpdateImageHandler {
	return &UpdateImageHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *UpdateImageHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateImageCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	synsetID, err := valueobjects.NewWNID(c.SynsetWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		image, err := repos.Images.GetByID(ctx, synsetID, c.ImageID)
		if err != nil {
			return err
		}

		if image.URL() != c.URL {
			dup, err := repos.Images.ExistsURL(ctx, synsetID, c.URL)
			if err != nil {
				return err
			}
			if dup {
				return pkgerrors.NewConflictError(
					fmt.Sprintf("image with URL of '%s' already exists for synset '%s'", c.URL, c.SynsetWNID))
			}
		}

		if err := image.UpdateURL(c.URL); err != nil {
			return err
		}
		if c.SeenAt != "" {
			image.MarkSeen(c.SeenAt)
		}

		return repos.Images.Update(ctx, image)
	})
}

// DeleteImageHandler removes a single image
type DeleteImageHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

// NewDeleteImageHandler creates the handler
func NewDeleteImageHandler(uow ports.UnitOfWork, logger *zap.Logger) *DeleteImageHandler {
	return &DeleteImageHandler{uow: uow, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *DeleteImageHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteImageCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	synsetID, err := valueobjects.NewWNID(c.SynsetWNID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.uow.Execute(ctx, func(repos ports.Repositories) error {
		if _, err := repos.Images.GetByID(ctx, synsetID, c.ImageID); err != nil {
			return err
		}
		return repos.Images.Delete(ctx, synsetID, c.ImageID)
	})
}
