package adminauth

import "net/http"

// SessionCookie builds the Set-Cookie value carrying a freshly issued
// session token. Always HTTP-only and SameSite=Lax on path "/"; Secure
// follows [Config.Production]. Max-Age matches the session TTL.
func (e *Engine) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     e.config.Cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   e.config.Cookie.Domain,
		MaxAge:   int(e.config.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   e.config.Production,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds the Set-Cookie value that removes the session
// cookie. MaxAge -1 serializes as Max-Age=0, an immediate expiry.
func (e *Engine) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     e.config.Cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   e.config.Cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   e.config.Production,
		SameSite: http.SameSiteLaxMode,
	}
}
