package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/database"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/hcaptcha"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/meetings"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/metrics/counter"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/router"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/session"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
)

const openAPIFile = "public/docs/v1/openapi.yml"

func main() {
	Execute()
}

func usesRedis() bool {
	return env.GetEnv("CACHE_DRIVER", "redis") != "memory"
}

// NewServices connects the database, cache, storage, mail and the meetings
// feed and builds the service layer on top of them.
func NewServices(ctx context.Context) (*services.Services, error) {
	env.SetupEnvFile()
	if err := database.SetupDatabase(); err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(database.GetDB())
	var views *counter.ViewCounter
	if usesRedis() {
		cache.SetupCache()
		views = counter.NewViewCounter(cache.GetClient())
	} else {
		repos.Cache = repository.NewCacheRepositoryWithClient(nil)
	}

	store, err := storage.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	mailer, err := mail.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}
	var feed *meetings.Client
	if client := meetings.NewClientFromEnv(); client.FeedURL != "" {
		feed = client
	} else {
		log.Warn("[Meetings] MEETINGS_FEED_URL not set, meetings list stays empty")
	}

	return services.New(services.Deps{
		Repos:          repos,
		Cache:          content.NewCache(cache.NewStoreFromEnv(), cache.DefaultTTL(), env.GetEnvInt("CACHE_INVALIDATE_PAGES", content.DefaultInvalidatePages)),
		Storage:        store,
		Mailer:         mailer,
		Meetings:       feed,
		Views:          views,
		AppURL:         env.GetEnv("APP_URL", "http://localhost:4000"),
		MaxUploadBytes: storage.MaxUploadBytes(),
	}), nil
}

func NewApplication(svc *services.Services) *fiber.App {
	// init session
	if usesRedis() {
		session.NewSessionStore()
	} else {
		session.NewMemorySessionStore()
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:      "district5b",
		BodyLimit:    int(storage.MaxUploadBytes()) + 1024*1024, // multipart overhead
		ErrorHandler: response.ErrorHandler,
		ReadTimeout:  60 * time.Second,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if basePath, ok := findBasePath(); ok {
		openAPICfg := swagger.Config{
			BasePath: "/docs/api/",
			FilePath: basePath + openAPIFile,
			Path:     "v1",
		}
		app.Use(swagger.New(openAPICfg))
	} else {
		log.Warnf("[App] %s not found, API docs disabled", openAPIFile)
	}

	// ROUTER
	var captcha middleware.CaptchaVerifier
	if v := hcaptcha.NewFromEnv(); v != nil {
		captcha = v
	}
	router.InstallRouter(app, svc, captcha)

	return app
}

// findBasePath locates the project root from the usual working directories.
func findBasePath() (string, bool) {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/district5b to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + openAPIFile); err == nil {
			return path, true
		}
	}
	return "", false
}
