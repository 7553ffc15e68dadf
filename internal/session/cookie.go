package session

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type visitorClaims struct {
	Email string `json:"user-email,omitempty"`
	Score int    `json:"lead-score"`
	jwt.RegisteredClaims
}

// CookieStore keeps the visitor in a signed HS256 cookie.
type CookieStore struct {
	secret []byte
	opts   CookieOptions
}

// NewCookieStore creates a cookie-backed store.
func NewCookieStore(secret []byte, opts CookieOptions) *CookieStore {
	return &CookieStore{secret: secret, opts: opts}
}

func (s *CookieStore) Load(c *gin.Context) Visitor {
	raw, err := c.Cookie(s.opts.Name)
	if err != nil || raw == "" {
		return Visitor{}
	}
	claims, err := s.parse(raw)
	if err != nil {
		return Visitor{}
	}
	return NewVisitor(claims.Email, claims.Score)
}

func (s *CookieStore) Save(c *gin.Context, v Visitor) error {
	now := time.Now()
	claims := visitorClaims{
		Email: v.Email(),
		Score: v.Score(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	s.opts.set(c, token)
	return nil
}

func (s *CookieStore) parse(raw string) (*visitorClaims, error) {
	claims := &visitorClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

var _ Store = (*CookieStore)(nil)
