package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/api/responses"
	"github.com/sitecrm/sitecrm-backend/api/validators"
	fieldsvc "github.com/sitecrm/sitecrm-backend/internal/customfields"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
)

type reorderFieldsRequest struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1,dive,uuid"`
}

func ListCustomFields(svc fieldsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, fields)
	}
}

func CreateCustomField(svc fieldsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft fieldsvc.FieldDraft
		if err := validators.DecodeJSONBody(r, &draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		draft.ID = nil

		field, err := svc.Save(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, field)
	}
}

func UpdateCustomField(svc fieldsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var draft fieldsvc.FieldDraft
		if err := validators.DecodeJSONBody(r, &draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		draft.ID = &id

		field, err := svc.Save(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, field)
	}
}

func DeleteCustomField(svc fieldsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReorderCustomFields rewrites display order from the submitted id sequence.
// The rewrite is best effort; the report lists any ids that failed.
func ReorderCustomFields(svc fieldsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderFieldsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(payload.OrderedIDs))
		for _, raw := range payload.OrderedIDs {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid id "+raw))
				return
			}
			ids = append(ids, id)
		}

		report, err := svc.ReorderFields(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
