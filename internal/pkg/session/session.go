package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

var sessionStore *session.Store

// NewSessionStore creates the Redis-backed session store (DB 1; the cache uses DB 0).
func NewSessionStore() *session.Store {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1, // Separate database for sessions
		Reset:    false,
	})

	return UseStore(session.New(config(storage)))
}

// NewMemorySessionStore keeps sessions in process memory (tests, CACHE_DRIVER=memory).
func NewMemorySessionStore() *session.Store {
	return UseStore(session.New(config(nil)))
}

func config(storage fiber.Storage) session.Config {
	return session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   !env.IsDev() && env.GetEnvBool("SESSION_SECURE_COOKIE", false),
		CookieSameSite: "Lax",
		Expiration:     env.GetEnvDuration("SESSION_LIFETIME", 2*time.Hour),
		KeyLookup:      "cookie:session_id",
	}
}

// UseStore installs store as the process-wide session store.
func UseStore(store *session.Store) *session.Store {
	sessionStore = store
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// Login regenerates the session id and stores the user identity in it.
func Login(c *fiber.Ctx, userID uint, username string, isAdmin bool) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	sess.Set(usercontext.KeyUserID, userID)
	sess.Set(usercontext.KeyUsername, username)
	sess.Set(usercontext.KeyIsAdmin, isAdmin)
	return sess.Save()
}

// Logout destroys the current session.
func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// Identity reads the user stored by Login. ok is false for anonymous sessions.
func Identity(c *fiber.Ctx) (userCtx usercontext.UserContext, ok bool) {
	if sessionStore == nil {
		return userCtx, false
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return userCtx, false
	}

	userID, isUint := sess.Get(usercontext.KeyUserID).(uint)
	if !isUint || userID == 0 {
		return userCtx, false
	}
	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	return usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	}, true
}
