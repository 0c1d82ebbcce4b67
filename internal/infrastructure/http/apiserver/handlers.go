package apiserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	memberapp "github.com/blankbase/blankbase/internal/application/member"
	"github.com/blankbase/blankbase/pkg/errors"
)

// MemberLister is the slice of the member service the API needs.
type MemberLister interface {
	List(ctx context.Context, req memberapp.ListRequest) (*memberapp.ListResult, error)
}

// MemberHandlers exposes member endpoints as JSON.
type MemberHandlers struct {
	members MemberLister
	metrics *Metrics
	logger  *zap.Logger
}

// NewMemberHandlers creates the member API handlers.
func NewMemberHandlers(members MemberLister, metrics *Metrics, logger *zap.Logger) *MemberHandlers {
	return &MemberHandlers{members: members, metrics: metrics, logger: logger}
}

type listParams struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"pageSize"`
	SortBy        string `form:"sortBy"`
	SortDirection string `form:"sortDirection"`
}

// ListMembers handles GET /api/v1/members. Unparsable query values
// bind to their zero values and the service clamps from there, so a
// mangled URL degrades to the first default page instead of a 400.
func (h *MemberHandlers) ListMembers(c *gin.Context) {
	var params listParams
	_ = c.ShouldBindQuery(&params)

	result, err := h.members.List(c.Request.Context(), memberapp.ListRequest{
		Page:          params.Page,
		PageSize:      params.PageSize,
		SortBy:        params.SortBy,
		SortDirection: params.SortDirection,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.metrics.membersListed.Inc()
	c.JSON(http.StatusOK, result)
}

func (h *MemberHandlers) renderError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	if appErr.Code == errors.CodeInternal {
		h.logger.Error("unexpected handler error", zap.Error(err))
	} else {
		h.logger.Warn("request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("message", appErr.Message),
		)
	}
	c.JSON(appErr.StatusCode(), gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}
