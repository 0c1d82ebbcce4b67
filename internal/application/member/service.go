// Package member implements the application service behind the member
// list pages: query normalization, the sort allow-list and pagination
// metadata assembly.
package member

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blankbase/blankbase/internal/domain/member"
	"github.com/blankbase/blankbase/internal/infrastructure/config"
	"github.com/blankbase/blankbase/pkg/paging"
)

// SortColumns is the public sort allow-list for member listings. The
// client treats these as opaque strings; anything outside the list
// falls back to the configured default.
var SortColumns = []string{"name", "email", "age", "isActive", "createdAt"}

// MemberDTO is the JSON row shape consumed by the list pages.
type MemberDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResult is the full list-endpoint payload.
type ListResult struct {
	Items      []MemberDTO     `json:"items"`
	Pagination paging.Metadata `json:"pagination"`
	Sort       paging.Sort     `json:"sort"`
}

// ListRequest carries raw, not yet normalized list parameters.
type ListRequest struct {
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
}

// Service answers member list queries.
type Service struct {
	repo   member.Repository
	ui     config.UIConfig
	logger *zap.Logger
}

// NewService creates the member service.
func NewService(repo member.Repository, ui config.UIConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, ui: ui, logger: logger.Named("members")}
}

// List normalizes the request, runs the repository query and assembles
// items plus pagination metadata. Out-of-range paging values are
// clamped and unknown sort columns replaced with the default rather
// than rejected, so a hand-edited URL still renders a page.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	q := s.normalize(req)

	members, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		items = append(items, MemberDTO{
			ID:        m.ID().String(),
			Name:      m.Name(),
			Email:     m.Email(),
			Age:       m.Age(),
			IsActive:  m.IsActive(),
			CreatedAt: m.CreatedAt(),
		})
	}

	return &ListResult{
		Items:      items,
		Pagination: paging.NewMetadata(q.Page, q.PageSize, int(total)),
		Sort:       paging.Sort{SortBy: q.SortBy, SortDirection: q.SortDirection},
	}, nil
}

func (s *Service) normalize(req ListRequest) member.ListQuery {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = s.ui.DefaultPageSize
	}
	if size > s.ui.MaxPageSize {
		size = s.ui.MaxPageSize
	}

	sortBy := s.ui.DefaultSortBy
	for _, col := range SortColumns {
		if strings.EqualFold(col, req.SortBy) {
			sortBy = col
			break
		}
	}
	if !strings.EqualFold(sortBy, req.SortBy) && req.SortBy != "" {
		s.logger.Debug("sort column not in allow-list, using default",
			zap.String("requested", req.SortBy), zap.String("using", sortBy))
	}

	return member.ListQuery{
		Page:          page,
		PageSize:      size,
		SortBy:        sortBy,
		SortDirection: paging.NormalizeDirection(req.SortDirection),
	}
}
