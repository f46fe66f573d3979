package http_handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/response"
)

type AccountHandler struct {
	svc *auth.Service
}

func NewAccountHandler(svc *auth.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// metricStatus turns an error into a bounded label value.
func metricStatus(err error) string {
	if err == nil {
		return "success"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return domain.CodeInternal
}

// Register handles POST /register and answers {"id": "..."}.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.RegistrationsTotal.WithLabelValues(metricStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.ToInput())
	middleware.RegistrationsTotal.WithLabelValues(metricStatus(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("account_id", res.ID).
		Msg("account_registered")

	response.OK(w, dto.RegisterResponse{ID: res.ID})
}

// Login handles POST /login. The token is the JSON string body and is
// repeated in the auth-token header.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(metricStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.ToInput())
	middleware.LoginAttemptsTotal.WithLabelValues(metricStatus(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set(middleware.HeaderAuthToken, res.Token)
	response.OK(w, res.Token)
}

// Me handles GET /me behind the auth middleware.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	acc, err := h.svc.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		if domain.Is(err, domain.CodeAccountNotFound) {
			// a valid token for an account that no longer exists
			err = domain.ErrTokenInvalid()
		}
		response.WriteError(w, r, err)
		return
	}

	out := dto.MeResponse{
		ID:    acc.ID,
		Name:  acc.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt.UTC()
		out.ExpiresAt = &exp
	}
	response.OK(w, out)
}
