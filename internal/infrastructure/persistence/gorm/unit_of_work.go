package gorm

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/blankbase/blankbase/pkg/errors"
)

// Repositories bundles every entity repository bound to one *gorm.DB,
// which inside a unit of work is the transaction handle.
type Repositories struct {
	Members *MemberRepository
}

// NewRepositories builds the repository set over db.
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Members: NewMemberRepository(db, logger),
	}
}

// UnitOfWork runs multi-repository work inside one transaction. The
// callback receives repositories bound to the transaction; returning an
// error rolls everything back.
type UnitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUnitOfWork creates a unit-of-work factory over db.
func NewUnitOfWork(db *gorm.DB, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{db: db, logger: logger.Named("uow")}
}

// Do executes fn transactionally.
func (u *UnitOfWork) Do(ctx context.Context, fn func(repos *Repositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, u.logger))
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Wrap(err, errors.CodeDatabaseError, "transaction failed")
	}
	return nil
}
