package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct{}

func (stubHealth) Root(w http.ResponseWriter, r *http.Request)    { w.WriteHeader(http.StatusOK) }
func (stubHealth) Healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (stubHealth) Readyz(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(http.StatusOK) }

type stubAccount struct{}

func (stubAccount) Register(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (stubAccount) Login(w http.ResponseWriter, r *http.Request)    { w.WriteHeader(http.StatusOK) }
func (stubAccount) Me(w http.ResponseWriter, r *http.Request)       { w.WriteHeader(http.StatusOK) }

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	require.Error(t, err)

	_, err = New(Deps{Health: stubHealth{}})
	require.Error(t, err)

	_, err = New(Deps{Health: stubHealth{}, Account: stubAccount{}})
	require.Error(t, err)
}

func TestNew_Routes(t *testing.T) {
	h, err := New(Deps{Health: stubHealth{}, Account: stubAccount{}, AuthMW: denyAll})
	require.NoError(t, err)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/register", http.StatusOK},
		{http.MethodPost, "/login", http.StatusOK},
		{http.MethodGet, "/me", http.StatusUnauthorized},
		{http.MethodGet, "/register", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rr.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"), "%s %s", tc.method, tc.path)
	}
}
