package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestWithCookie(token string) *http.Request {
	r := httptest.NewRequest("GET", "/admin/bookings", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	return r
}

func TestSessionToken_Deterministic(t *testing.T) {
	a := New("super-secret", false)
	b := New("super-secret", true)

	tokenA, err := a.SessionToken()
	if err != nil {
		t.Fatalf("SessionToken failed: %v", err)
	}
	tokenB, err := b.SessionToken()
	if err != nil {
		t.Fatalf("SessionToken failed: %v", err)
	}

	if tokenA != tokenB {
		t.Fatalf("Same secret produced different tokens: %s vs %s", tokenA, tokenB)
	}

	// Repeated calls stay stable
	for i := 0; i < 5; i++ {
		again, _ := a.SessionToken()
		if again != tokenA {
			t.Fatalf("Token changed between calls")
		}
	}

	if !a.HasSession(requestWithCookie(tokenA)) {
		t.Fatal("Expected derived token to authenticate as session cookie")
	}
}

func TestSessionToken_DifferentSecretsDoNotValidate(t *testing.T) {
	a := New("secret-one", false)
	b := New("secret-two", false)

	tokenA, err := a.SessionToken()
	if err != nil {
		t.Fatalf("SessionToken failed: %v", err)
	}

	if b.HasSession(requestWithCookie(tokenA)) {
		t.Fatal("Token derived from secret-one validated against secret-two")
	}
}

func TestHasSession_HeaderVariants(t *testing.T) {
	a := New("super-secret", false)

	tests := []struct {
		name   string
		header string
		value  string
		want   bool
	}{
		{"current header", SecretHeader, "super-secret", true},
		{"legacy header", LegacySecretHeader, "super-secret", true},
		{"bearer token", "Authorization", "Bearer super-secret", true},
		{"wrong secret", SecretHeader, "wrong-secret1", false},
		{"different length", SecretHeader, "short", false},
		{"bearer wrong", "Authorization", "Bearer nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/admin/bookings/verify", nil)
			r.Header.Set(tt.header, tt.value)
			if got := a.HasSession(r); got != tt.want {
				t.Fatalf("HasSession = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasSession_NoCredential(t *testing.T) {
	a := New("super-secret", false)
	if a.HasSession(httptest.NewRequest("GET", "/admin/bookings", nil)) {
		t.Fatal("Bare request should not have a session")
	}
}

func TestHasSession_SecretNotConfigured(t *testing.T) {
	a := New("  ", false)

	r := httptest.NewRequest("GET", "/admin/bookings", nil)
	r.Header.Set(SecretHeader, "anything")
	if a.HasSession(r) {
		t.Fatal("Unconfigured secret must never authenticate")
	}

	if _, err := a.Secret(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRequireOwner_Actors(t *testing.T) {
	a := New("super-secret", false)

	r := httptest.NewRequest("POST", "/api/admin/bookings/verify", nil)
	r.Header.Set(SecretHeader, "super-secret")
	owner, err := a.RequireOwner(r)
	if err != nil {
		t.Fatalf("RequireOwner failed: %v", err)
	}
	if owner.Actor != "admin-secret" {
		t.Fatalf("Expected actor admin-secret, got %s", owner.Actor)
	}

	token, _ := a.SessionToken()
	owner, err = a.RequireOwner(requestWithCookie(token))
	if err != nil {
		t.Fatalf("RequireOwner with cookie failed: %v", err)
	}
	if owner.Actor != "admin-session" {
		t.Fatalf("Expected actor admin-session, got %s", owner.Actor)
	}

	if _, err := a.RequireOwner(httptest.NewRequest("POST", "/api/admin/bookings/verify", nil)); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireOwner_NotConfigured(t *testing.T) {
	a := New("", false)
	_, err := a.RequireOwner(httptest.NewRequest("POST", "/api/admin/bookings/verify", nil))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestSessionCookieFor_Attributes(t *testing.T) {
	a := New("super-secret", true)

	cookie, err := a.SessionCookieFor()
	if err != nil {
		t.Fatalf("SessionCookieFor failed: %v", err)
	}

	token, _ := a.SessionToken()
	if cookie.Value != token {
		t.Fatal("Cookie value must equal the derived session token")
	}
	if cookie.Name != SessionCookie || cookie.Path != "/" {
		t.Fatalf("Unexpected cookie name/path: %s %s", cookie.Name, cookie.Path)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Fatal("Production cookie must be HttpOnly and Secure")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatal("Cookie must be SameSite=Lax")
	}
	if cookie.MaxAge != 8*60*60 {
		t.Fatalf("Expected 8h max-age, got %d", cookie.MaxAge)
	}

	dev, _ := New("super-secret", false).SessionCookieFor()
	if dev.Secure {
		t.Fatal("Development cookie must not be marked Secure")
	}
}

func TestClearCookie(t *testing.T) {
	cookie := New("super-secret", false).ClearCookie()
	if cookie.Name != SessionCookie || cookie.Value != "" {
		t.Fatal("Clear cookie must blank the session value")
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("Clear cookie must expire immediately, got max-age %d", cookie.MaxAge)
	}
}

func TestVerifyCode(t *testing.T) {
	a := New("super-secret", false)

	if ok, err := a.VerifyCode("super-secret"); err != nil || !ok {
		t.Fatalf("Expected code to verify, got ok=%v err=%v", ok, err)
	}
	if ok, _ := a.VerifyCode("wrong"); ok {
		t.Fatal("Wrong code must not verify")
	}
	if ok, _ := a.VerifyCode(" super-secret "); !ok {
		t.Fatal("Code should be trimmed before comparison")
	}
}
