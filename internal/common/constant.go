package common

import "time"

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "urbannest_session"

// DefaultSessionValidity is the fixed lifetime of a login session.
const DefaultSessionValidity = 7 * 24 * time.Hour
