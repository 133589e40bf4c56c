package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/pkg/apierrors"
)

func TestGetDecodesResponse(t *testing.T) {
	var gotPath, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "name": "Ada"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", time.Second)

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := c.Get(context.Background(), "/users/7", nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "/api/users/7", gotPath, "trailing slash on base URL is trimmed")
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "Ada", out.Name)
	assert.NotEmpty(t, gotRequestID, "every request carries a request id")
}

func TestQueryParamsEncoded(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	q := url.Values{}
	q.Set("page", "2")
	q.Set("size", "10")
	require.NoError(t, c.Get(context.Background(), "/users/paginated", q, nil))

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("size"))
}

func TestPostSendsJSONBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	body := map[string]string{"name": "Ada", "email": "ada@x.io"}
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, c.Post(context.Background(), "/users", body, &out))

	assert.JSONEq(t, `{"name":"Ada","email":"ada@x.io"}`, gotBody)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, int64(1), out.ID)
}

func TestNonTwoHundredBecomesTypedError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apierrors.Code
		wantMsg  string
	}{
		{"not found with message", http.StatusNotFound, `{"message":"user not found"}`, apierrors.CodeNotFound, "user not found"},
		{"conflict with error field", http.StatusConflict, `{"error":"email already exists"}`, apierrors.CodeConflict, "email already exists"},
		{"bad request without body", http.StatusBadRequest, ``, apierrors.CodeBadRequest, "bad_request"},
		{"server error", http.StatusInternalServerError, `oops`, apierrors.CodeUpstream, "upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			err := c.Get(context.Background(), "/users/1", nil, nil)

			require.Error(t, err)
			assert.True(t, apierrors.HasCode(err, tt.wantCode))
			assert.Equal(t, tt.status, apierrors.StatusOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestTransportFailure(t *testing.T) {
	// Server closed before the call to force a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Get(context.Background(), "/users", nil, nil)

	require.Error(t, err)
	assert.True(t, apierrors.HasCode(err, apierrors.CodeTransport))
	assert.Equal(t, 0, apierrors.StatusOf(err), "no status when no response arrived")
}

func TestDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "not-a-number"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.Get(context.Background(), "/users/1", nil, &out)

	require.Error(t, err)
	assert.True(t, apierrors.HasCode(err, apierrors.CodeDecode))
}

func TestDeleteDiscardsBody(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.NoError(t, c.Delete(context.Background(), "/orders/42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestPathLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/users", "/users"},
		{"/users/42", "/users/:id"},
		{"/users/email/ada@x.io", "/users/email/:email"},
		{"/orders/42/status", "/orders/:id/status"},
		{"/orders/user/7/statistics", "/orders/user/:id/statistics"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pathLabel(tt.in), tt.in)
	}
}
