// Package services holds the content operations behind the HTTP handlers:
// cache-backed reads, validated writes and the cache invalidation that
// follows every committed write.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/meetings"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/metrics/counter"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
)

// Default page sizes. Invalidation evicts list pages at these sizes.
const (
	StoriesPerPage     = 10
	EventsPerPage      = 10
	FAQsPerPage        = 20
	DocumentsPerPage   = 20
	RosterPerPage      = 100
	ContactsPerPage    = 20
	SubmissionsPerPage = 20
	UsersPerPage       = 20
	MeetingsPerPage    = 50
)

var bothScopes = []string{content.ScopePublic, content.ScopeAdmin}

// Deps are the collaborators shared by all services.
type Deps struct {
	Repos          *repository.Repositories
	Cache          *content.Cache
	Storage        storage.Storage
	Mailer         mail.Mailer
	Meetings       *meetings.Client
	Views          *counter.ViewCounter
	Now            func() time.Time
	AppURL         string
	MaxUploadBytes int64
}

// Services bundles one service per content type.
type Services struct {
	Stories     *StoryService
	Events      *EventService
	FAQs        *FAQService
	Documents   *DocumentService
	Roster      *RosterService
	Contacts    *ContactService
	Submissions *SubmissionService
	Users       *UserService
	Settings    *SettingService
	Meetings    *MeetingService
	Cache       *CacheService
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 50 * 1024 * 1024
	}
	if d.Mailer == nil {
		d.Mailer = mail.LogMailer{}
	}

	settings := &SettingService{repo: d.Repos.Setting, cache: d.Cache}
	stories := &StoryService{repo: d.Repos.Story, cache: d.Cache, views: d.Views, now: d.Now}
	documents := &DocumentService{repo: d.Repos.Document, cache: d.Cache, storage: d.Storage, now: d.Now, maxBytes: d.MaxUploadBytes}

	return &Services{
		Stories:     stories,
		Events:      &EventService{repo: d.Repos.Event, cache: d.Cache, storage: d.Storage, documents: documents, now: d.Now, maxBytes: d.MaxUploadBytes},
		FAQs:        &FAQService{repo: d.Repos.FAQ, cache: d.Cache},
		Documents:   documents,
		Roster:      &RosterService{repo: d.Repos.Roster, cache: d.Cache},
		Contacts:    &ContactService{repo: d.Repos.Contact, cache: d.Cache, settings: settings, mailer: d.Mailer},
		Submissions: &SubmissionService{repo: d.Repos.Submission, cache: d.Cache, stories: stories, settings: settings, mailer: d.Mailer, appURL: d.AppURL},
		Users:       &UserService{repo: d.Repos.User, cache: d.Cache, mailer: d.Mailer, now: d.Now, appURL: d.AppURL},
		Settings:    settings,
		Meetings:    &MeetingService{client: d.Meetings, cache: d.Cache},
		Cache:       &CacheService{cache: d.Cache, repo: d.Repos.Cache},
	}
}

// listPaged is the read-through list path: cached page or store query.
func listPaged[T any](ctx context.Context, c *content.Cache, entity content.Entity, q content.ListQuery,
	load func(ctx context.Context, q content.ListQuery) ([]T, int64, error)) (content.Page[T], error) {
	return content.Remember(ctx, c, content.ListKey(entity, q), func(ctx context.Context) (content.Page[T], error) {
		items, total, err := load(ctx, q)
		if err != nil {
			return content.Page[T]{}, apperr.Internal("", err)
		}
		return content.NewPage(items, total, q.Page, q.PerPage), nil
	})
}

// getOne is the read-through single-item path. Missing rows are NotFound
// and are not cached.
func getOne[T any](ctx context.Context, c *content.Cache, entity content.Entity, key interface{}, notFound string,
	load func(ctx context.Context) (*T, error)) (*T, error) {
	return content.Remember(ctx, c, content.ItemKey(entity, key), func(ctx context.Context) (*T, error) {
		item, err := load(ctx)
		if err != nil {
			return nil, apperr.FromStore(err, notFound)
		}
		return item, nil
	})
}

// storeErr converts a repository write error.
func storeErr(err error, notFound string) error {
	return apperr.FromStore(err, notFound)
}

// optional trims s and returns nil when it is empty.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

var errMeetingsDisabled = errors.New("meetings client not configured")
