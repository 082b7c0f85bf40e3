package gormstore

import (
	"context"

	"gorm.io/gorm"

	"imagenet-browser/application/ports"
	pkgerrors "imagenet-browser/pkg/errors"
)

// UnitOfWork implements ports.UnitOfWork on a GORM transaction. Every write
// made through the repositories handed to fn commits or rolls back as one.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over the root connection
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Execute runs fn inside a transaction
func (u *UnitOfWork) Execute(ctx context.Context, fn func(repos ports.Repositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.Repositories{
			Synsets: NewSynsetRepository(tx),
			Images:  NewImageRepository(tx),
		})
	})
	if err == nil || pkgerrors.IsAppError(err) {
		return err
	}
	return pkgerrors.NewDatabaseError("transaction", err)
}

// Repositories returns non-transactional repositories over the root
// connection, for the read path.
func (u *UnitOfWork) Repositories() ports.Repositories {
	return ports.Repositories{
		Synsets: NewSynsetRepository(u.db),
		Images:  NewImageRepository(u.db),
	}
}
