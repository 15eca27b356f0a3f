package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func runSession(t *testing.T, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sid string
	mw := Session(SessionConfig{Secret: testSecret, TTL: time.Hour})
	if err := mw(func(c echo.Context) error {
		sid = SessionID(c)
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return sid, rec
}

func TestSession_MintsCookieOnFirstContact(t *testing.T) {
	sid, rec := runSession(t, nil)
	if sid == "" {
		t.Fatalf("expected a session id")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || !cookies[0].HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", cookies)
	}
	got, err := ParseSessionToken(testSecret, cookies[0].Value)
	if err != nil || got != sid {
		t.Fatalf("cookie should carry sid %q, got %q (%v)", sid, got, err)
	}
}

func TestSession_ReusesValidCookie(t *testing.T) {
	token, err := MintSessionToken(testSecret, "sid-42", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	sid, rec := runSession(t, &http.Cookie{Name: CookieName, Value: token})
	if sid != "sid-42" {
		t.Fatalf("expected sid-42, got %q", sid)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie should not be replaced")
	}
}

func TestSession_ReplacesForgedOrExpiredCookie(t *testing.T) {
	forged, _ := MintSessionToken("other-secret", "sid-evil", time.Hour, time.Now())
	expired, _ := MintSessionToken(testSecret, "sid-old", time.Hour, time.Now().Add(-2*time.Hour))

	for name, token := range map[string]string{"forged": forged, "expired": expired, "garbage": "not-a-jwt"} {
		sid, rec := runSession(t, &http.Cookie{Name: CookieName, Value: token})
		if sid == "" || sid == "sid-evil" || sid == "sid-old" {
			t.Fatalf("%s: expected a fresh sid, got %q", name, sid)
		}
		if len(rec.Result().Cookies()) != 1 {
			t.Fatalf("%s: expected a replacement cookie", name)
		}
	}
}
