package controllers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

type faqRepo struct {
	mu    sync.Mutex
	rows  map[uint]models.FAQ
	next  uint
	lists int
}

func newFAQRepo() *faqRepo {
	return &faqRepo{rows: map[uint]models.FAQ{}}
}

func (r *faqRepo) Create(_ context.Context, item *models.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	item.ID = r.next
	r.rows[item.ID] = *item
	return nil
}

func (r *faqRepo) GetByID(_ context.Context, id uint) (*models.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *faqRepo) Update(_ context.Context, item *models.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[item.ID] = *item
	return nil
}

func (r *faqRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *faqRepo) List(_ context.Context, q content.ListQuery) ([]models.FAQ, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []models.FAQ
	for _, row := range r.rows {
		if q.Search == "" || strings.Contains(strings.ToLower(row.Title), q.Search) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	start := q.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + q.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *faqRepo) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

type settingRepo struct {
	mu  sync.Mutex
	row *models.Setting
}

func (r *settingRepo) Get(_ context.Context) (*models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.row
	return &cp, nil
}

func (r *settingRepo) Save(_ context.Context, setting *models.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *setting
	r.row = &cp
	return nil
}

func (r *settingRepo) EnsureDefaults(ctx context.Context) (*models.Setting, error) {
	r.mu.Lock()
	if r.row == nil {
		def := models.DefaultSetting()
		r.row = &def
	}
	r.mu.Unlock()
	return r.Get(ctx)
}

type fixture struct {
	faqs     *faqRepo
	settings *settingRepo
	svc      *services.Services
}

func newFixture() *fixture {
	f := &fixture{faqs: newFAQRepo(), settings: &settingRepo{}}
	f.svc = services.New(services.Deps{
		Repos: &repository.Repositories{FAQ: f.faqs, Setting: f.settings},
		Cache: content.NewCache(cache.NewMemoryStore(), time.Hour, 3),
		Now:   func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	})
	return f
}

// newTestApp builds an app with the production error handler. Requests carry
// their identity in the X-Test-User header: "admin" or "member".
func newTestApp(f *fixture) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		switch c.Get("X-Test-User") {
		case "admin":
			usercontext.SetUserContext(c, usercontext.UserContext{UserID: 1, Username: "admin", IsLoggedIn: true, IsAdmin: true})
		case "member":
			usercontext.SetUserContext(c, usercontext.UserContext{UserID: 2, Username: "member", IsLoggedIn: true})
		default:
			usercontext.SetUserContext(c, usercontext.UserContext{})
		}
		return c.Next()
	})
	app.Use(middleware.SettingsMiddleware(f.svc.Settings))
	return app
}
