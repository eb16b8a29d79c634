package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/metrics/counter"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/slug"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const storyNotFound = "Story not found"

// StoryInput is the writable part of a story. A nil Slug means "derive from
// the title"; a nil ReadingTime means "estimate from the content".
type StoryInput struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Slug            *string    `json:"slug" validate:"omitempty,max=255"`
	Content         string     `json:"content" validate:"required"`
	Excerpt         string     `json:"excerpt" validate:"max=1000"`
	Author          string     `json:"author" validate:"max=255"`
	FeaturedImage   string     `json:"featured_image" validate:"omitempty,max=512"`
	MetaTitle       string     `json:"meta_title" validate:"max=255"`
	MetaDescription string     `json:"meta_description" validate:"max=500"`
	ReadingTime     *int       `json:"reading_time" validate:"omitempty,min=1,max=600"`
	IsActive        bool       `json:"is_active"`
	IsFeatured      bool       `json:"is_featured"`
	Category        string     `json:"category" validate:"max=100"`
	Tags            []string   `json:"tags" validate:"max=20,dive,max=50"`
	PublishedAt     *time.Time `json:"published_at"`
}

type StoryService struct {
	repo  repository.StoryRepository
	cache *content.Cache
	views *counter.ViewCounter
	now   func() time.Time
}

// ListPublic returns published stories, newest publication first.
func (s *StoryService) ListPublic(ctx context.Context, q content.ListQuery) (content.Page[models.Story], error) {
	q.Scope = content.ScopePublic
	return s.list(ctx, q)
}

// ListAdmin returns every story, newest first.
func (s *StoryService) ListAdmin(ctx context.Context, q content.ListQuery) (content.Page[models.Story], error) {
	q.Scope = content.ScopeAdmin
	return s.list(ctx, q)
}

func (s *StoryService) list(ctx context.Context, q content.ListQuery) (content.Page[models.Story], error) {
	q = q.Only(content.FilterSearch | content.FilterCategory).Normalize(StoriesPerPage)
	return listPaged(ctx, s.cache, content.EntityStory, q, func(ctx context.Context, q content.ListQuery) ([]models.Story, int64, error) {
		return s.repo.List(ctx, q, s.now())
	})
}

// GetPublic looks a story up by slug. Visibility is checked after the cached
// read, so a cached entry never outlives the story's publication state.
func (s *StoryService) GetPublic(ctx context.Context, storySlug string) (*models.Story, error) {
	story, err := getOne(ctx, s.cache, content.EntityStory, slugKey(storySlug), storyNotFound, func(ctx context.Context) (*models.Story, error) {
		return s.repo.GetBySlug(ctx, storySlug)
	})
	if err != nil {
		return nil, err
	}
	if !story.IsPubliclyVisible(s.now()) {
		return nil, apperr.NotFound(storyNotFound)
	}
	return story, nil
}

// Get returns any story by id.
func (s *StoryService) Get(ctx context.Context, id uint) (*models.Story, error) {
	return getOne(ctx, s.cache, content.EntityStory, id, storyNotFound, func(ctx context.Context) (*models.Story, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *StoryService) Create(ctx context.Context, actor usercontext.Actor, in StoryInput) (*models.Story, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}

	story := &models.Story{}
	if actor.UserID != 0 {
		owner := actor.UserID
		story.UserID = &owner
	}

	base := slug.Make(in.Title)
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		base = slug.Make(*in.Slug)
	}
	s.apply(story, in)

	// A concurrent create can take the slug between the check and the insert;
	// the unique index rejects the loser, which derives the slug once more.
	for attempt := 0; ; attempt++ {
		unique, err := s.uniqueSlug(ctx, base, 0)
		if err != nil {
			return nil, err
		}
		story.Slug = unique
		story.ID = 0

		err = s.repo.Create(ctx, story)
		if err == nil {
			break
		}
		if attempt == 0 && errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Infof("[StoryService] slug %q taken concurrently, retrying", unique)
			continue
		}
		return nil, storeErr(err, storyNotFound)
	}
	s.invalidate(ctx, story.ID, story.Slug)
	return story, nil
}

// Update keeps the slug unless a new one is supplied, or the title changed
// and no slug was supplied, in which case it is derived again.
func (s *StoryService) Update(ctx context.Context, actor usercontext.Actor, id uint, in StoryInput) (*models.Story, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	story, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	oldSlug := story.Slug
	switch {
	case in.Slug != nil && strings.TrimSpace(*in.Slug) != "":
		if requested := slug.Make(*in.Slug); requested != story.Slug {
			if story.Slug, err = s.uniqueSlug(ctx, requested, story.ID); err != nil {
				return nil, err
			}
		}
	case in.Title != story.Title:
		if story.Slug, err = s.uniqueSlug(ctx, slug.Make(in.Title), story.ID); err != nil {
			return nil, err
		}
	}
	s.apply(story, in)

	if err := s.repo.Update(ctx, story); err != nil {
		return nil, storeErr(err, storyNotFound)
	}
	s.invalidate(ctx, story.ID, oldSlug, story.Slug)
	return story, nil
}

func (s *StoryService) Delete(ctx context.Context, actor usercontext.Actor, id uint) error {
	story, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, storyNotFound)
	}
	s.invalidate(ctx, story.ID, story.Slug)
	return nil
}

// RecordView counts a public read. Counts are buffered in Redis when available.
func (s *StoryService) RecordView(ctx context.Context, id uint) {
	var err error
	if s.views != nil {
		err = s.views.Add(ctx, id)
	} else {
		err = s.repo.AddViews(ctx, map[uint]int64{id: 1})
	}
	if err != nil {
		log.Warnf("[StoryService] recording view of story %d failed: %v", id, err)
	}
}

// FlushViews writes buffered view counts to the database.
func (s *StoryService) FlushViews(ctx context.Context) error {
	if s.views == nil {
		return nil
	}
	return s.views.Flush(ctx, s.repo.AddViews)
}

// SweepPublished evicts the story lists when a scheduled story went live in
// (from, to]. It returns how many stories did.
func (s *StoryService) SweepPublished(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := s.repo.CountPublishedBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.cache.Invalidate(ctx, content.Invalidation{
			Entity:  content.EntityStory,
			PerPage: StoriesPerPage,
			Scopes:  []string{content.ScopePublic},
		})
	}
	return n, nil
}

// editable loads a story uncached and checks that actor may change it.
func (s *StoryService) editable(ctx context.Context, actor usercontext.Actor, id uint) (*models.Story, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, storyNotFound)
	}
	if !actor.IsAdmin && !story.OwnedBy(actor.UserID) {
		return nil, apperr.Forbidden("You can only edit your own stories")
	}
	return story, nil
}

func (s *StoryService) apply(story *models.Story, in StoryInput) {
	story.Title = strings.TrimSpace(in.Title)
	story.Content = in.Content
	story.Excerpt = strings.TrimSpace(in.Excerpt)
	story.Author = strings.TrimSpace(in.Author)
	story.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	story.MetaTitle = strings.TrimSpace(in.MetaTitle)
	story.MetaDescription = strings.TrimSpace(in.MetaDescription)
	story.IsActive = in.IsActive
	story.IsFeatured = in.IsFeatured
	story.Category = strings.TrimSpace(in.Category)
	story.Tags = cleanTags(in.Tags)
	if in.PublishedAt != nil {
		t := in.PublishedAt.UTC()
		story.PublishedAt = &t
	}
	story.SyncPublication(s.now())

	if in.ReadingTime != nil {
		story.ReadingTime = *in.ReadingTime
	} else {
		story.ReadingTime = models.ReadingTimeFor(in.Content)
	}
}

func (s *StoryService) uniqueSlug(ctx context.Context, base string, exceptID uint) (string, error) {
	unique, err := slug.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, exceptID)
	})
	if err != nil {
		return "", apperr.Internal("", err)
	}
	return unique, nil
}

func (s *StoryService) invalidate(ctx context.Context, id uint, slugs ...string) {
	items := []interface{}{id}
	for _, sl := range slugs {
		items = append(items, slugKey(sl))
	}
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityStory,
		PerPage: StoriesPerPage,
		Scopes:  bothScopes,
		Items:   items,
	})
}

func slugKey(s string) string {
	return "slug:" + s
}

// cleanTags trims tags, drops empties and duplicates and keeps the order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}
