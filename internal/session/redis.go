package session

import (
	"context"
	"strconv"

	"portfolio_leads_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const visitorKeyPrefix = "visitor:"

// RedisStore keeps the visitor in a Redis hash keyed by an opaque
// visitor-id cookie. Each save refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	opts   CookieOptions
	log    *logger.Logger
}

// NewRedisStore creates a redis-backed store.
func NewRedisStore(client *redis.Client, opts CookieOptions, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, opts: opts, log: log}
}

func (s *RedisStore) Load(c *gin.Context) Visitor {
	id, err := c.Cookie(s.opts.Name)
	if err != nil {
		return Visitor{}
	}
	if _, err := uuid.Parse(id); err != nil {
		return Visitor{}
	}

	fields, err := s.client.HGetAll(c.Request.Context(), visitorKey(id)).Result()
	if err != nil {
		s.log.WithContext(c.Request.Context()).Warn("visitor session read failed", "error", err)
		v := Visitor{}.withID(id)
		v.unreadable = true
		return v
	}
	if len(fields) == 0 {
		return Visitor{}.withID(id)
	}
	score, _ := strconv.Atoi(fields[fieldScore])
	return NewVisitor(fields[fieldEmail], score).withID(id)
}

func (s *RedisStore) Save(c *gin.Context, v Visitor) error {
	if v.Unreadable() {
		return ErrUnreadable
	}
	id := v.ID()
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.write(c.Request.Context(), id, v); err != nil {
		return err
	}
	s.opts.set(c, id)
	return nil
}

func (s *RedisStore) write(ctx context.Context, id string, v Visitor) error {
	key := visitorKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldEmail, v.Email(), fieldScore, strconv.Itoa(v.Score()))
		if s.opts.TTL > 0 {
			pipe.Expire(ctx, key, s.opts.TTL)
		}
		return nil
	})
	return err
}

func visitorKey(id string) string {
	return visitorKeyPrefix + id
}

var _ Store = (*RedisStore)(nil)
