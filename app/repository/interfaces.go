package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// CRUD is the row-level contract shared by every content repository.
type CRUD[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
}

// StoryRepository defines the interface for story-related operations
type StoryRepository interface {
	CRUD[models.Story]
	GetBySlug(ctx context.Context, slug string) (*models.Story, error)
	// List applies the public visibility predicate at now for ScopePublic.
	List(ctx context.Context, q content.ListQuery, now time.Time) ([]models.Story, int64, error)
	SlugExists(ctx context.Context, slug string, exceptID uint) (bool, error)
	CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error)
	AddViews(ctx context.Context, counts map[uint]int64) error
}

// EventRepository defines the interface for event-related operations
type EventRepository interface {
	CRUD[models.Event]
	List(ctx context.Context, q content.ListQuery) ([]models.Event, int64, error)
}

// FAQRepository defines the interface for FAQ operations
type FAQRepository interface {
	CRUD[models.FAQ]
	List(ctx context.Context, q content.ListQuery) ([]models.FAQ, int64, error)
}

// DocumentRepository defines the interface for resource documents
type DocumentRepository interface {
	CRUD[models.Document]
	// List only returns public file documents for ScopePublic.
	List(ctx context.Context, q content.ListQuery) ([]models.Document, int64, error)
	FileNameExists(ctx context.Context, fileName string) (bool, error)
}

// RosterRepository defines the interface for roster members
type RosterRepository interface {
	CRUD[models.Roster]
	List(ctx context.Context, q content.ListQuery) ([]models.Roster, int64, error)
}

// ContactRepository defines the interface for contact form submissions
type ContactRepository interface {
	CRUD[models.Contact]
	List(ctx context.Context, q content.ListQuery) ([]models.Contact, int64, error)
}

// SubmissionRepository defines the interface for story submissions
type SubmissionRepository interface {
	CRUD[models.StorySubmission]
	// List filters by q.Status when set.
	List(ctx context.Context, q content.ListQuery) ([]models.StorySubmission, int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	CRUD[models.User]
	// GetByLogin matches the username or the email address.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByPasswordSetupToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context, q content.ListQuery) ([]models.User, int64, error)
	UsernameExists(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailExists(ctx context.Context, email string, exceptID uint) (bool, error)
}

// SettingRepository reads and writes the singleton settings row
type SettingRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Save(ctx context.Context, setting *models.Setting) error
	// EnsureDefaults creates the row with models.DefaultSetting when missing.
	EnsureDefaults(ctx context.Context) (*models.Setting, error)
}

// CacheRepository inspects and prunes the Redis cache keyspace
type CacheRepository interface {
	FindKeysByPatterns(ctx context.Context, patterns []string) ([]string, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
	DeleteKeys(ctx context.Context, keys []string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Story      StoryRepository
	Event      EventRepository
	FAQ        FAQRepository
	Document   DocumentRepository
	Roster     RosterRepository
	Contact    ContactRepository
	Submission SubmissionRepository
	User       UserRepository
	Setting    SettingRepository
	Cache      CacheRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Story:      NewStoryRepository(db),
		Event:      NewEventRepository(db),
		FAQ:        NewFAQRepository(db),
		Document:   NewDocumentRepository(db),
		Roster:     NewRosterRepository(db),
		Contact:    NewContactRepository(db),
		Submission: NewSubmissionRepository(db),
		User:       NewUserRepository(db),
		Setting:    NewSettingRepository(db),
		Cache:      NewCacheRepository(),
	}
}
