package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// HeaderAuthToken carries the token issued by /login.
const HeaderAuthToken = "auth-token"

type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth accepts either Authorization: Bearer <token> or the auth-token
// header, verifies it and injects the claims into the request context.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := verifier.VerifyToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.AccountID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", domain.ErrTokenInvalid()
		}
		raw := strings.TrimSpace(parts[1])
		if raw == "" {
			return "", domain.ErrTokenInvalid()
		}
		return raw, nil
	}

	if raw := strings.TrimSpace(r.Header.Get(HeaderAuthToken)); raw != "" {
		return raw, nil
	}
	return "", domain.ErrTokenMissing()
}
