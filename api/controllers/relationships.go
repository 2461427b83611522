package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/api/responses"
	"github.com/sitecrm/sitecrm-backend/api/validators"
	relsvc "github.com/sitecrm/sitecrm-backend/internal/relationships"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
)

type addRelationshipsRequest struct {
	EntityType string   `json:"entity_type" validate:"required"`
	EntityID   string   `json:"entity_id" validate:"required,uuid"`
	Groups     []string `json:"groups,omitempty" validate:"omitempty,dive,uuid"`
	Chains     []string `json:"chains,omitempty" validate:"omitempty,dive,uuid"`
	Sites      []string `json:"sites,omitempty" validate:"omitempty,dive,uuid"`
	Contacts   []string `json:"contacts,omitempty" validate:"omitempty,dive,uuid"`
	Suppliers  []string `json:"suppliers,omitempty" validate:"omitempty,dive,uuid"`
}

type setPrimaryRequest struct {
	EntityType string `json:"entity_type" validate:"required"`
	EntityID   string `json:"entity_id" validate:"required,uuid"`
	TargetType string `json:"target_type" validate:"required"`
	TargetID   string `json:"target_id" validate:"required,uuid"`
	Action     string `json:"action" validate:"required,oneof=set unset"`
}

type walkAroundContactRequest struct {
	ContactID *string `json:"contact_id" validate:"omitempty,uuid"`
}

func AddRelationships(svc relsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addRelationshipsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseEntityKind(strings.TrimSpace(payload.EntityType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity_type"))
			return
		}
		id, err := uuid.Parse(payload.EntityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity_id"))
			return
		}

		additions, err := payload.toAdditions()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity, err := svc.AddRelationships(r.Context(), kind, id, additions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entity)
	}
}

func SetPrimary(svc relsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setPrimaryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subjectKind, err := enums.ParseEntityKind(strings.TrimSpace(payload.EntityType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity_type"))
			return
		}
		targetKind, err := enums.ParseEntityKind(strings.TrimSpace(payload.TargetType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target_type"))
			return
		}
		subjectID, err := uuid.Parse(payload.EntityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity_id"))
			return
		}
		targetID, err := uuid.Parse(payload.TargetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target_id"))
			return
		}
		action, err := relsvc.ParseAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		result, err := svc.SetPrimary(r.Context(), subjectKind, subjectID, targetKind, targetID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SetWalkAroundContact assigns or clears the site's walk-around contact. A
// null contact_id clears the designation.
func SetWalkAroundContact(svc relsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteID, err := idParam(r, "siteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload walkAroundContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var contactID *uuid.UUID
		if payload.ContactID != nil {
			parsed, parseErr := uuid.Parse(*payload.ContactID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid contact_id"))
				return
			}
			contactID = &parsed
		}

		site, err := svc.SetWalkAroundContact(r.Context(), siteID, contactID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, site)
	}
}

func (p addRelationshipsRequest) toAdditions() (relsvc.Additions, error) {
	var additions relsvc.Additions
	for _, batch := range []struct {
		raw  []string
		dest *[]uuid.UUID
	}{
		{p.Groups, &additions.Groups},
		{p.Chains, &additions.Chains},
		{p.Sites, &additions.Sites},
		{p.Contacts, &additions.Contacts},
		{p.Suppliers, &additions.Suppliers},
	} {
		ids, err := parseUUIDs(batch.raw)
		if err != nil {
			return relsvc.Additions{}, err
		}
		*batch.dest = ids
	}
	return additions, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id "+value)
		}
		out = append(out, id)
	}
	return out, nil
}
