package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memberapp "github.com/blankbase/blankbase/internal/application/member"
	"github.com/blankbase/blankbase/internal/infrastructure/config"
	"github.com/blankbase/blankbase/pkg/errors"
	"github.com/blankbase/blankbase/pkg/paging"
)

type stubLister struct {
	lastReq memberapp.ListRequest
	result  *memberapp.ListResult
	err     error
}

func (s *stubLister) List(ctx context.Context, req memberapp.ListRequest) (*memberapp.ListResult, error) {
	s.lastReq = req
	return s.result, s.err
}

func testServer(t *testing.T, lister MemberLister) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.App.Name = "blankbase-api"
	cfg.App.Version = "1.0.0"
	cfg.Server.APIPort = 0
	return NewServer(cfg, zap.NewNop(), lister)
}

func TestListMembersBindsQuery(t *testing.T) {
	lister := &stubLister{result: &memberapp.ListResult{
		Items:      []memberapp.MemberDTO{},
		Pagination: paging.NewMetadata(2, 5, 12),
		Sort:       paging.Sort{SortBy: "email", SortDirection: paging.Descending},
	}}
	srv := testServer(t, lister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/members?page=2&pageSize=5&sortBy=email&sortDirection=desc", nil)
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, memberapp.ListRequest{
		Page: 2, PageSize: 5, SortBy: "email", SortDirection: "desc",
	}, lister.lastReq)

	var body struct {
		Items      []memberapp.MemberDTO `json:"items"`
		Pagination paging.Metadata       `json:"pagination"`
		Sort       paging.Sort           `json:"sort"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Pagination.PageNumber)
	assert.Equal(t, 12, body.Pagination.TotalCount)
	assert.Equal(t, "email", body.Sort.SortBy)
}

func TestListMembersUnparsableQueryDegrades(t *testing.T) {
	lister := &stubLister{result: &memberapp.ListResult{
		Items:      []memberapp.MemberDTO{},
		Pagination: paging.NewMetadata(1, 10, 0),
	}}
	srv := testServer(t, lister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members?page=banana", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, lister.lastReq.Page, "unparsable page binds to zero and the service clamps")
}

func TestListMembersAppErrorStatus(t *testing.T) {
	lister := &stubLister{err: errors.New(errors.CodeInvalidSortColumn, "sort column not allowed")}
	srv := testServer(t, lister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(errors.CodeInvalidSortColumn), body.Error.Code)
}

func TestListMembersUnknownErrorIsInternal(t *testing.T) {
	lister := &stubLister{err: context.DeadlineExceeded}
	srv := testServer(t, lister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "deadline", "causes are not leaked to clients")
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, &stubLister{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, &stubLister{result: &memberapp.ListResult{
		Items:      []memberapp.MemberDTO{},
		Pagination: paging.NewMetadata(1, 10, 0),
	}})

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blankbase_members_list_requests_total")
}
