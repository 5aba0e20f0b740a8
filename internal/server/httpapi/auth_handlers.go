package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
)

var authMessages = messages{
	invalid:      "Email and password required",
	unauthorized: "Invalid credentials",
}

type userBody struct {
	User *models.PublicUser `json:"user"`
}

type successBody struct {
	Success bool `json:"success"`
}

func (h *api) signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, authMessages)
		return
	}

	user, issued, err := h.Users.Signup(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, authMessages)
		return
	}

	h.setSessionCookie(w, r, issued)
	h.respond(w, r, http.StatusOK, userBody{User: user.Public()})
}

func (h *api) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, authMessages)
		return
	}

	user, issued, err := h.Users.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, authMessages)
		return
	}

	h.setSessionCookie(w, r, issued)
	h.respond(w, r, http.StatusOK, userBody{User: user.Public()})
}

// logout revokes the current session, if any, and always clears the cookie.
func (h *api) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Logout(r.Context(), auth.SessionFromContext(r.Context())); err != nil {
		h.fail(w, r, err, messages{})
		return
	}

	h.clearSessionCookie(w, r)
	h.respond(w, r, http.StatusOK, successBody{Success: true})
}

func (h *api) me(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, userBody{User: auth.UserFromContext(r.Context()).Public()})
}

func (h *api) setSessionCookie(w http.ResponseWriter, r *http.Request, s *services.IssuedSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    s.Cookie,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *api) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *api) secureCookies(r *http.Request) bool {
	return h.Config.SecureCookies || r.TLS != nil
}
