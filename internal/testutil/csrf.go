package testutil

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFKey signs the tokens issued by CSRFProtect.
var CSRFKey = []byte("0123456789abcdef0123456789abcdef")

// CSRFProtect wraps h with gorilla/csrf configured as the router does in
// development: the token travels in the X-CSRF-Token header and requests
// are plain HTTP.
//
// Usage:
//
//	h := testutil.CSRFProtect(handler)
//	token, cookies := testutil.FetchCSRF(t, h, "/csrf")
//	req := testutil.WithCSRF(testutil.NewRequest(http.MethodPost, "/logout"), token, cookies)
func CSRFProtect(h http.Handler) http.Handler {
	protected := csrf.Protect(CSRFKey, csrf.Secure(false), csrf.RequestHeader("X-CSRF-Token"))(h)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// FetchCSRF performs a GET on target and returns the X-CSRF-Token response
// header together with the cookies the request set.
func FetchCSRF(t interface{ Fatalf(string, ...any) }, h http.Handler, target string) (string, []*http.Cookie) {
	rec := NewRecorder()
	h.ServeHTTP(rec, NewRequest(http.MethodGet, target))
	token := rec.Header().Get("X-CSRF-Token")
	if token == "" {
		t.Fatalf("GET %s returned no X-CSRF-Token header (status %d)", target, rec.Code)
	}
	return token, rec.Result().Cookies()
}

// WithCSRF attaches a token and its cookies to r.
func WithCSRF(r *http.Request, token string, cookies []*http.Cookie) *http.Request {
	r.Header.Set("X-CSRF-Token", token)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}
