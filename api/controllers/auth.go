package controllers

import (
	"net/http"

	"github.com/sitecrm/sitecrm-backend/api/responses"
	"github.com/sitecrm/sitecrm-backend/api/validators"
	authsvc "github.com/sitecrm/sitecrm-backend/internal/auth"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func AuthLogin(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}
