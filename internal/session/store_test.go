package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio_leads_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func testCookieOptions() CookieOptions {
	return CookieOptions{Name: "lead_session", SameSite: http.SameSiteLaxMode, TTL: time.Hour}
}

func newContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, rec
}

func savedCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("expected cookie %s to be set", name)
	return nil
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store := NewCookieStore([]byte("secret"), testCookieOptions())

	c, rec := newContext()
	if v := store.Load(c); v.IsKnown() || v.Score() != 0 {
		t.Fatalf("expected empty visitor without cookie, got %+v", v)
	}
	if err := store.Save(c, NewVisitor("ada@bigbank.com", 20)); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	ck := savedCookie(t, rec, "lead_session")
	if !ck.HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
	next, _ := newContext(ck)
	v := store.Load(next)
	if v.Email() != "ada@bigbank.com" || v.Score() != 20 {
		t.Fatalf("expected ada with 20, got %q %d", v.Email(), v.Score())
	}
}

func TestCookieStoreRejectsForeignSignature(t *testing.T) {
	writer := NewCookieStore([]byte("other-secret"), testCookieOptions())
	c, rec := newContext()
	_ = writer.Save(c, NewVisitor("mallory@example.com", 100))

	reader := NewCookieStore([]byte("secret"), testCookieOptions())
	next, _ := newContext(savedCookie(t, rec, "lead_session"))
	if v := reader.Load(next); v.Score() != 0 || v.IsKnown() {
		t.Fatalf("expected tampered cookie to load as empty visitor, got %+v", v)
	}
}

func TestCookieStoreIgnoresGarbage(t *testing.T) {
	store := NewCookieStore([]byte("secret"), testCookieOptions())
	c, _ := newContext(&http.Cookie{Name: "lead_session", Value: "not-a-token"})
	if v := store.Load(c); v.Score() != 0 {
		t.Fatalf("expected score 0, got %d", v.Score())
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, testCookieOptions(), logger.Discard()), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)

	c, rec := newContext()
	if err := store.Save(c, Visitor{}.WithEmail("ada@bigbank.com").AddScore(20)); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	ck := savedCookie(t, rec, "lead_session")

	key := visitorKey(ck.Value)
	if got := mr.HGet(key, "lead-score"); got != "20" {
		t.Fatalf("expected lead-score 20 in redis, got %q", got)
	}
	if got := mr.HGet(key, "user-email"); got != "ada@bigbank.com" {
		t.Fatalf("expected user-email in redis, got %q", got)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}

	next, rec2 := newContext(ck)
	v := store.Load(next)
	if v.Score() != 20 || v.ID() != ck.Value {
		t.Fatalf("expected score 20 with same id, got %d %q", v.Score(), v.ID())
	}

	if err := store.Save(next, v.AddScore(25)); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if savedCookie(t, rec2, "lead_session").Value != ck.Value {
		t.Fatalf("expected visitor id to be kept across saves")
	}
	if got := mr.HGet(key, "lead-score"); got != "45" {
		t.Fatalf("expected 45 after second save, got %q", got)
	}
}

func TestRedisStoreUnknownIDLoadsEmpty(t *testing.T) {
	store, _ := newRedisStore(t)
	c, _ := newContext(&http.Cookie{Name: "lead_session", Value: "7d4f3c7e-8f0a-4a43-9d55-2c1f1b0e6a11"})
	v := store.Load(c)
	if v.Score() != 0 || v.IsKnown() {
		t.Fatalf("expected empty visitor, got %+v", v)
	}
	if v.ID() == "" {
		t.Fatalf("expected id to be carried for the next save")
	}
}

func TestRedisStoreReadFailureIsNotOverwritten(t *testing.T) {
	store, mr := newRedisStore(t)

	c, rec := newContext()
	if err := store.Save(c, NewVisitor("ada@bigbank.com", 80)); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	ck := savedCookie(t, rec, "lead_session")
	key := visitorKey(ck.Value)

	mr.SetError("LOADING Redis is loading the dataset in memory")
	next, _ := newContext(ck)
	v := store.Load(next)
	mr.SetError("")

	if !v.Unreadable() || v.ID() != ck.Value {
		t.Fatalf("expected unreadable visitor with the cookie id, got %+v", v)
	}
	if err := store.Save(next, v.WithEmail("ada@bigbank.com").AddScore(5)); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if got := mr.HGet(key, "lead-score"); got != "80" {
		t.Fatalf("expected stored score 80 to survive, got %q", got)
	}
	if got := mr.HGet(key, "user-email"); got != "ada@bigbank.com" {
		t.Fatalf("expected stored email to survive, got %q", got)
	}

	again, _ := newContext(ck)
	if v := store.Load(again); v.Unreadable() || v.Score() != 80 {
		t.Fatalf("expected a readable visitor with score 80 once redis recovers, got %+v", v)
	}
}

type stubSessionConfig struct{ store string }

func (s stubSessionConfig) GetSessionStore() string                 { return s.store }
func (s stubSessionConfig) GetSessionSecret() string                { return "secret" }
func (s stubSessionConfig) GetSessionCookieName() string            { return "lead_session" }
func (s stubSessionConfig) GetSessionCookieDomain() string          { return "" }
func (s stubSessionConfig) GetSessionCookieSecure() bool            { return false }
func (s stubSessionConfig) GetSessionCookieSameSite() http.SameSite { return http.SameSiteLaxMode }
func (s stubSessionConfig) GetSessionTTL() time.Duration            { return time.Hour }

func TestNewStoreSelection(t *testing.T) {
	if s, err := NewStore(stubSessionConfig{store: "cookie"}, nil, logger.Discard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if _, ok := s.(*CookieStore); !ok {
		t.Fatalf("expected cookie store, got %T", s)
	}
	if _, err := NewStore(stubSessionConfig{store: "redis"}, nil, logger.Discard()); err == nil {
		t.Fatalf("expected error for redis store without client")
	}
	if _, err := NewStore(stubSessionConfig{store: "memcache"}, nil, logger.Discard()); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
