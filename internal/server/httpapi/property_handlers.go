package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
)

var (
	readMessages   = messages{notFound: "Property not found"}
	writeMessages  = messages{invalid: "Invalid property data", notFound: "Property not found or not authorized"}
	filterMessages = messages{invalid: "Invalid filter"}
)

func (h *api) listProperties(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.fail(w, r, err, filterMessages)
		return
	}

	props, err := h.Properties.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, filterMessages)
		return
	}
	h.respond(w, r, http.StatusOK, props)
}

func (h *api) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, readMessages)
		return
	}
	h.respond(w, r, http.StatusOK, p)
}

func (h *api) similarProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.Properties.Similar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, readMessages)
		return
	}
	h.respond(w, r, http.StatusOK, props)
}

func (h *api) myProperties(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	props, err := h.Properties.ListMine(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, messages{})
		return
	}
	h.respond(w, r, http.StatusOK, props)
}

func (h *api) createProperty(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var in services.CreatePropertyInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, writeMessages)
		return
	}

	p, err := h.Properties.Create(r.Context(), user.ID, in)
	if err != nil {
		h.fail(w, r, err, writeMessages)
		return
	}
	h.respond(w, r, http.StatusCreated, p)
}

func (h *api) updateProperty(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var in services.UpdatePropertyInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, writeMessages)
		return
	}

	p, err := h.Properties.Update(r.Context(), chi.URLParam(r, "id"), user.ID, in)
	if err != nil {
		h.fail(w, r, err, writeMessages)
		return
	}
	h.respond(w, r, http.StatusOK, p)
}

func (h *api) deleteProperty(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if err := h.Properties.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		h.fail(w, r, err, writeMessages)
		return
	}
	h.respond(w, r, http.StatusOK, successBody{Success: true})
}

// parseFilter reads ?available=&type=&location=. An absent or empty
// available parameter returns both states.
func parseFilter(r *http.Request) (models.PropertyFilter, error) {
	q := r.URL.Query()
	filter := models.PropertyFilter{
		Type:     q.Get("type"),
		Location: q.Get("location"),
	}

	if v := q.Get("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, common.NewValidationError("available", "must be true or false")
		}
		filter.Available = &b
	}
	return filter, nil
}
