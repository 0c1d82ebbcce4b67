package member

import (
	"context"

	"github.com/google/uuid"
)

// ListQuery describes one page of a sorted member listing. SortBy is an
// opaque column name validated against the allow-list by the caller.
type ListQuery struct {
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
}

// Offset returns the row offset for the query.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Repository is the persistence port for members.
type Repository interface {
	Save(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	// List returns one page of members plus the total count.
	List(ctx context.Context, q ListQuery) ([]*Member, int64, error)
}
