package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
)

var enquiryMessages = messages{invalid: "Invalid enquiry data"}

func (h *api) createEnquiry(w http.ResponseWriter, r *http.Request) {
	var in services.CreateEnquiryInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, enquiryMessages)
		return
	}

	e, err := h.Enquiries.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, enquiryMessages)
		return
	}
	h.respond(w, r, http.StatusCreated, e)
}

func (h *api) myEnquiries(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	enqs, err := h.Enquiries.ListForOwner(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, messages{})
		return
	}
	h.respond(w, r, http.StatusOK, enqs)
}
