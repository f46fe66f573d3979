package http_handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/router"
)

const testSecret = "test-secret"

type testApp struct {
	handler http.Handler
	store   *memory.AccountRepo
	issuer  *security.JWTIssuer
}

// newTestApp wires the real service, hasher and issuer over the memory store.
func newTestApp(t *testing.T, db Pinger) testApp {
	t.Helper()

	store := memory.NewAccountRepo()
	issuer := security.NewJWTIssuer(testSecret, "account-service")
	svc := auth.NewService(store, security.NewBcryptHasher(4), issuer, memory.NewNoopPublisher(), auth.Config{})

	h, err := router.New(router.Deps{
		Health:  NewHealthHandler(db),
		Account: NewAccountHandler(svc),
		AuthMW:  middleware.Auth(svc, response.WriteError),
	})
	require.NoError(t, err)

	return testApp{handler: h, store: store, issuer: issuer}
}

func (a testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body=%s", rr.Body.String())
	return body.Error
}
