package session

import (
	"exam_system_backend/internal/config"
	"exam_system_backend/pkg/database"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

// NewStore builds the server-side session backend. The cookie only carries
// the signed session id; payloads live in redis or in process memory.
func NewStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.Session.Secret)

	var store sessions.Store
	switch cfg.Session.Store {
	case "redis":
		rs, err := redis.NewStore(10, "tcp", database.RedisAddr(&cfg.Redis), cfg.Redis.Password, secret)
		if err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		store = rs
	case "memory", "":
		store = memstore.NewStore(secret)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func Middleware(cookieName string, store sessions.Store) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = "exam_session"
	}
	return sessions.Sessions(cookieName, store)
}
