package gorm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/blankbase/blankbase/internal/domain/member"
	"github.com/blankbase/blankbase/pkg/errors"
	"github.com/blankbase/blankbase/pkg/paging"
)

// Repository is the generic CRUD base shared by entity repositories.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository wraps db in a typed base repository.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Create inserts a row.
func (r *Repository[T]) Create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "creating row")
	}
	return nil
}

// Update saves all fields of a row.
func (r *Repository[T]) Update(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "updating row")
	}
	return nil
}

// Count returns the total number of rows.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var model T
	var total int64
	if err := r.db.WithContext(ctx).Model(&model).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "counting rows")
	}
	return total, nil
}

// Page fetches one page of rows ordered by the given column expression.
// orderExpr must already be whitelisted by the caller; it is never
// built from raw user input here.
func (r *Repository[T]) Page(ctx context.Context, orderExpr string, offset, limit int) ([]T, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	var rows []T
	if err := r.db.WithContext(ctx).
		Order(orderExpr).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "fetching page")
	}
	return rows, total, nil
}

// memberSortColumns maps the public, camelCase sort names onto actual
// columns. This is the fixed allow-list; anything else is rejected
// before it reaches SQL.
var memberSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"age":       "age",
	"isactive":  "is_active",
	"createdat": "created_at",
}

// MemberSortColumn resolves a public sort name to a database column.
func MemberSortColumn(sortBy string) (string, bool) {
	col, ok := memberSortColumns[strings.ToLower(sortBy)]
	return col, ok
}

// MemberRepository persists members. It embeds the generic base for
// CRUD plumbing and adds the member-specific list query.
type MemberRepository struct {
	*Repository[MemberModel]
	db     *gorm.DB
	logger *zap.Logger
}

// NewMemberRepository creates a member repository over db.
func NewMemberRepository(db *gorm.DB, logger *zap.Logger) *MemberRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberRepository{
		Repository: NewRepository[MemberModel](db),
		db:         db,
		logger:     logger.Named("members"),
	}
}

// Save inserts or updates the member.
func (r *MemberRepository) Save(ctx context.Context, m *member.Member) error {
	return r.Update(ctx, MemberToModel(m))
}

// FindByID loads one member.
func (r *MemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var row MemberModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.CodeMemberNotFound, "member not found").
			WithMetadata("id", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "loading member")
	}
	return ModelToMember(&row), nil
}

// Delete removes one member. Deleting an absent member is not an error.
func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&MemberModel{}, "id = ?", id).Error; err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "deleting member")
	}
	return nil
}

// List returns one page of members plus the total count. The sort
// column must come from the allow-list.
func (r *MemberRepository) List(ctx context.Context, q member.ListQuery) ([]*member.Member, int64, error) {
	col, ok := MemberSortColumn(q.SortBy)
	if !ok {
		return nil, 0, errors.New(errors.CodeInvalidSortColumn, "unknown sort column").
			WithMetadata("sortBy", q.SortBy)
	}
	direction := "ASC"
	if paging.NormalizeDirection(q.SortDirection) == paging.Descending {
		direction = "DESC"
	}

	rows, total, err := r.Page(ctx, fmt.Sprintf("%s %s", col, direction), q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, err
	}
	members := make([]*member.Member, 0, len(rows))
	for i := range rows {
		members = append(members, ModelToMember(&rows[i]))
	}
	return members, total, nil
}

var _ member.Repository = (*MemberRepository)(nil)
