package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/entity"
	"opsdash/internal/gateway"
	"opsdash/pkg/apierrors"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// fakeGateway serves canned JSON and records what the service sent.
func fakeGateway(t *testing.T, status int, response string) (*Service, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.RawQuery
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return New(gateway.New(srv.URL+"/api", time.Second)), rec
}

func TestCreatePostsExactBody(t *testing.T) {
	svc, rec := fakeGateway(t, http.StatusCreated,
		`{"id":1,"name":"Ada","email":"ada@x.io","status":"ACTIVE"}`)

	user, err := svc.Create(context.Background(), entity.CreateUserRequest{Name: "Ada", Email: "ada@x.io"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/users", rec.Path)
	assert.Equal(t, map[string]any{"name": "Ada", "email": "ada@x.io"}, rec.Body,
		"optional fields are omitted, not sent as zero values")
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, entity.UserActive, user.Status)
}

func TestListPaginated(t *testing.T) {
	svc, rec := fakeGateway(t, http.StatusOK, `{
		"content": [{"id":1,"name":"Ada","email":"ada@x.io","status":"ACTIVE"}],
		"pageable": {"pageNumber":0,"pageSize":10,"sort":{"sorted":true,"unsorted":false}},
		"totalElements": 1, "totalPages": 1, "first": true, "last": true, "numberOfElements": 1
	}`)

	page, err := svc.ListPaginated(context.Background(), 0, 10, "createdAt", "desc")

	require.NoError(t, err)
	assert.Equal(t, "/api/users/paginated", rec.Path)
	assert.Contains(t, rec.Query, "page=0")
	assert.Contains(t, rec.Query, "size=10")
	assert.Contains(t, rec.Query, "sortBy=createdAt")
	assert.Contains(t, rec.Query, "sortDir=desc")
	require.Len(t, page.Content, 1)
	assert.NoError(t, page.CheckInvariants())
}

func TestLookups(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		svc, rec := fakeGateway(t, http.StatusOK, `{"id":7,"name":"Ada","email":"ada@x.io","status":"ACTIVE"}`)
		_, err := svc.ByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "/api/users/7", rec.Path)
	})

	t.Run("by email escapes the address", func(t *testing.T) {
		svc, rec := fakeGateway(t, http.StatusOK, `{"id":7,"name":"Ada","email":"ada@x.io","status":"ACTIVE"}`)
		_, err := svc.ByEmail(context.Background(), "ada@x.io")
		require.NoError(t, err)
		assert.Equal(t, "/api/users/email/ada@x.io", rec.Path)
	})
}

func TestSearch(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		svc, rec := fakeGateway(t, http.StatusOK, `[]`)
		_, err := svc.SearchByName(context.Background(), "ada")
		require.NoError(t, err)
		assert.Equal(t, "/api/users/search/name", rec.Path)
		assert.Equal(t, "name=ada", rec.Query)
	})

	t.Run("advanced", func(t *testing.T) {
		svc, rec := fakeGateway(t, http.StatusOK, `{
			"content": [], "pageable": {"pageNumber":0,"pageSize":10,"sort":{"sorted":false,"unsorted":true}},
			"totalElements": 0, "totalPages": 0, "first": true, "last": true, "numberOfElements": 0
		}`)
		_, err := svc.SearchAdvanced(context.Background(), "ada", 0, 10, "id", "asc")
		require.NoError(t, err)
		assert.Equal(t, "/api/users/search/advanced", rec.Path)
		assert.Contains(t, rec.Query, "searchTerm=ada")
	})
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Service) (*entity.User, error)
		wantPath string
	}{
		{"activate", func(s *Service) (*entity.User, error) { return s.Activate(context.Background(), 5) }, "/api/users/5/activate"},
		{"deactivate", func(s *Service) (*entity.User, error) { return s.Deactivate(context.Background(), 5) }, "/api/users/5/deactivate"},
		{"suspend", func(s *Service) (*entity.User, error) { return s.Suspend(context.Background(), 5) }, "/api/users/5/suspend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := fakeGateway(t, http.StatusOK, `{"id":5,"name":"Ada","email":"ada@x.io","status":"ACTIVE"}`)
			_, err := tt.call(svc)
			require.NoError(t, err)
			assert.Equal(t, http.MethodPatch, rec.Method)
			assert.Equal(t, tt.wantPath, rec.Path)
			assert.Nil(t, rec.Body, "status transitions carry no body")
		})
	}
}

func TestDelete(t *testing.T) {
	svc, rec := fakeGateway(t, http.StatusNoContent, ``)
	require.NoError(t, svc.Delete(context.Background(), 9))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/users/9", rec.Path)
}

func TestStatistics(t *testing.T) {
	svc, rec := fakeGateway(t, http.StatusOK,
		`{"totalUsers":10,"activeUsers":6,"inactiveUsers":3,"suspendedUsers":1}`)

	stats, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/users/statistics", rec.Path)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.SuspendedUsers)
}

func TestErrorsPassThroughUnmodified(t *testing.T) {
	svc, _ := fakeGateway(t, http.StatusNotFound, `{"message":"user not found"}`)

	_, err := svc.ByID(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, apierrors.HasCode(err, apierrors.CodeNotFound))
	assert.Equal(t, "user not found", err.Error())
}
