package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/api/responses"
	"github.com/sitecrm/sitecrm-backend/api/validators"
	entitysvc "github.com/sitecrm/sitecrm-backend/internal/entities"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

func kindParam(r *http.Request) (enums.EntityKind, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "kind"))
	kind, err := enums.ParseEntityKind(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity kind")
	}
	return kind, nil
}

func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

type createEntityRequest struct {
	Name      string                 `json:"name,omitempty"`
	FirstName string                 `json:"firstName,omitempty"`
	LastName  string                 `json:"lastName,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Website   string                 `json:"website,omitempty"`
	Notes     string                 `json:"notes,omitempty"`
	Emails    types.ContactPointList `json:"emails,omitempty"`
	Phones    types.ContactPointList `json:"phones,omitempty"`
}

type updateEntityRequest struct {
	Name      *string                 `json:"name,omitempty"`
	FirstName *string                 `json:"firstName,omitempty"`
	LastName  *string                 `json:"lastName,omitempty"`
	Address   *string                 `json:"address,omitempty"`
	Website   *string                 `json:"website,omitempty"`
	Notes     *string                 `json:"notes,omitempty"`
	Emails    *types.ContactPointList `json:"emails,omitempty"`
	Phones    *types.ContactPointList `json:"phones,omitempty"`
}

func ListEntities(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreateEntity(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createEntityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity, err := svc.Create(r.Context(), kind, entitysvc.CreateEntityInput{
			Name:      payload.Name,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Address:   payload.Address,
			Website:   payload.Website,
			Notes:     payload.Notes,
			Emails:    payload.Emails,
			Phones:    payload.Phones,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entity)
	}
}

func GetEntity(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity, err := svc.Get(r.Context(), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entity)
	}
}

func UpdateEntity(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEntityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity, err := svc.Update(r.Context(), kind, id, entitysvc.UpdateEntityInput{
			Name:      payload.Name,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Address:   payload.Address,
			Website:   payload.Website,
			Notes:     payload.Notes,
			Emails:    payload.Emails,
			Phones:    payload.Phones,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entity)
	}
}

func DeleteEntity(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), kind, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type contactPointRequest struct {
	Action    string `json:"action" validate:"required,oneof=add remove set_primary"`
	Value     string `json:"value" validate:"required"`
	Location  string `json:"location,omitempty"`
	Extension string `json:"extension,omitempty"`
}

// MutateContactPoint adds, removes, or promotes one email/phone record on an
// entity. The channel comes from the URL, the action from the body.
func MutateContactPoint(svc entitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := kindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		channel, err := entitysvc.ParseChannel(strings.TrimSpace(chi.URLParam(r, "channel")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact channel"))
			return
		}

		var payload contactPointRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var entity *entitysvc.EntityDTO
		switch payload.Action {
		case "add":
			entity, err = svc.AddContactPoint(r.Context(), kind, id, channel, types.ContactPoint{
				Value:     payload.Value,
				Location:  payload.Location,
				Extension: payload.Extension,
			})
		case "remove":
			entity, err = svc.RemoveContactPoint(r.Context(), kind, id, channel, payload.Value)
		case "set_primary":
			entity, err = svc.SetPrimaryContactPoint(r.Context(), kind, id, channel, payload.Value)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entity)
	}
}
