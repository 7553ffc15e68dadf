package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	StoreCookie = "cookie"
	StoreRedis  = "redis"

	// Entry names shared by both stores.
	fieldEmail = "user-email"
	fieldScore = "lead-score"
)

// ErrUnreadable is returned by Save for a visitor whose stored state could
// not be read, so a transient read failure never overwrites it.
var ErrUnreadable = errors.New("session: stored visitor could not be read")

// Store loads and saves the visitor for a request. Load never fails: a
// missing or invalid session is an unknown visitor with score 0. When the
// backend itself fails, the visitor is also Unreadable and Save refuses it.
type Store interface {
	Load(c *gin.Context) Visitor
	Save(c *gin.Context, v Visitor) error
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func cookieOptionsFrom(cfg config.SessionConfig) CookieOptions {
	return CookieOptions{
		Name:     cfg.GetSessionCookieName(),
		Domain:   cfg.GetSessionCookieDomain(),
		Secure:   cfg.GetSessionCookieSecure(),
		SameSite: cfg.GetSessionCookieSameSite(),
		TTL:      cfg.GetSessionTTL(),
	}
}

func (o CookieOptions) set(c *gin.Context, value string) {
	c.SetSameSite(o.SameSite)
	c.SetCookie(o.Name, value, int(o.TTL/time.Second), "/", o.Domain, o.Secure, true)
}

// NewStore builds the store selected by configuration. The redis client is
// only used for the redis store.
func NewStore(cfg config.SessionConfig, client *redis.Client, log *logger.Logger) (Store, error) {
	opts := cookieOptionsFrom(cfg)
	switch cfg.GetSessionStore() {
	case StoreCookie, "":
		return NewCookieStore([]byte(cfg.GetSessionSecret()), opts), nil
	case StoreRedis:
		if client == nil {
			return nil, fmt.Errorf("session store %q requires a redis client", StoreRedis)
		}
		return NewRedisStore(client, opts, log), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.GetSessionStore())
	}
}
