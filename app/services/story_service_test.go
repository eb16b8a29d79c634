package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

var admin = usercontext.Actor{UserID: 1, IsAdmin: true}

func publishedStory(title string, at time.Time) StoryInput {
	return StoryInput{Title: title, Content: "<p>" + title + "</p>", IsActive: true, PublishedAt: &at}
}

func TestStoryCreateHelloWorldTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)
	second, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)
	third, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Hello,  World!", Content: "x"})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-1", second.Slug)
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestStoryCreateRetriesSlugTakenConcurrently(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	attempts := 0
	f.stories.beforeCreate = func(s *models.Story) error {
		attempts++
		if attempts == 1 {
			// another request inserts the same slug first
			rival := models.Story{Title: "Hello World", Slug: s.Slug}
			require.NoError(t, f.stories.table.Create(ctx, &rival))
			return gorm.ErrDuplicatedKey
		}
		return nil
	}

	story, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "hello-world-1", story.Slug)
	assert.Len(t, f.stories.all(), 2)
}

func TestStoryCreateDuplicateSlugTwiceIsConflict(t *testing.T) {
	f := newFixture()
	f.stories.beforeCreate = func(*models.Story) error { return gorm.ErrDuplicatedKey }

	_, err := f.svc.Stories.Create(context.Background(), admin, StoryInput{Title: "Hello World", Content: "x"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Empty(t, f.stories.all())
}

func TestStoryUpdateSlugRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	story, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Spring Picnic", Content: "x"})
	require.NoError(t, err)

	same, err := f.svc.Stories.Update(ctx, admin, story.ID, StoryInput{Title: "Spring Picnic", Content: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "spring-picnic", same.Slug)

	renamed, err := f.svc.Stories.Update(ctx, admin, story.ID, StoryInput{Title: "Summer Picnic", Content: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "summer-picnic", renamed.Slug)

	custom := "Picnic 2026"
	explicit, err := f.svc.Stories.Update(ctx, admin, story.ID, StoryInput{Title: "Autumn Picnic", Slug: &custom, Content: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "picnic-2026", explicit.Slug)

	_, err = f.svc.Stories.GetPublic(ctx, "spring-picnic")
	assert.True(t, apperr.IsNotFound(err))
}

func TestStoryPublicationDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	active, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Live", Content: strings.Repeat("word ", 450), IsActive: true})
	require.NoError(t, err)
	require.NotNil(t, active.PublishedAt)
	assert.Equal(t, f.clock.Now(), *active.PublishedAt)
	assert.Equal(t, 3, active.ReadingTime)

	draft, err := f.svc.Stories.Update(ctx, admin, active.ID, StoryInput{Title: "Live", Content: "short", IsActive: false})
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)
	assert.Equal(t, 1, draft.ReadingTime)
}

func TestStoryVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := f.clock.Now()

	inactive, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Draft", Content: "x"})
	require.NoError(t, err)
	scheduled, err := f.svc.Stories.Create(ctx, admin, publishedStory("Tomorrow", now.Add(time.Hour)))
	require.NoError(t, err)

	for _, slug := range []string{inactive.Slug, scheduled.Slug} {
		_, err := f.svc.Stories.GetPublic(ctx, slug)
		assert.True(t, apperr.IsNotFound(err), slug)
	}

	page, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	adminPage, err := f.svc.Stories.ListAdmin(ctx, content.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, adminPage.Data, 2)

	got, err := f.svc.Stories.Get(ctx, inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	f.clock.Advance(2 * time.Hour)
	live, err := f.svc.Stories.GetPublic(ctx, scheduled.Slug)
	require.NoError(t, err)
	assert.Equal(t, scheduled.ID, live.ID)
}

func TestStorySearchRecovery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := f.clock.Now()

	_, err := f.svc.Stories.Create(ctx, admin, publishedStory("Road to Recovery", now.Add(-48*time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("RECOVERY in practice", now.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Recovery draft", Content: "x"})
	require.NoError(t, err)
	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("Service meeting", now.Add(-2*time.Hour)))
	require.NoError(t, err)

	page, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{Search: "recovery", Page: 1, PerPage: 20})
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	assert.Equal(t, "RECOVERY in practice", page.Data[0].Title)
	assert.Equal(t, "Road to Recovery", page.Data[1].Title)
	assert.Equal(t, int64(2), page.Total)
}

func TestStoryListCachedUntilWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := f.clock.Now()

	_, err := f.svc.Stories.Create(ctx, admin, publishedStory("One", now.Add(-time.Hour)))
	require.NoError(t, err)

	first, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)
	again, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{Page: 1, Search: "  "})
	require.NoError(t, err)
	assert.Equal(t, first.Total, again.Total)
	assert.Equal(t, first.Data[0].Slug, again.Data[0].Slug)
	assert.Equal(t, 1, f.stories.listCalls())

	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("Two", now.Add(-time.Minute)))
	require.NoError(t, err)

	after, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.stories.listCalls())
	require.Len(t, after.Data, 2)
	assert.Equal(t, "Two", after.Data[0].Title)
}

func TestStoryListEquivalentFiltersShareInvalidatedKey(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := f.clock.Now()

	_, err := f.svc.Stories.Create(ctx, admin, publishedStory("One", now.Add(-time.Hour)))
	require.NoError(t, err)

	variants := []content.ListQuery{
		{Page: 1, Status: "x"},
		{Page: 1, PerPage: 5},
		{Page: 1, PerPage: 500, Status: "approved"},
	}
	for _, q := range variants {
		page, err := f.svc.Stories.ListPublic(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, StoriesPerPage, page.PerPage)
	}
	assert.Equal(t, 1, f.stories.listCalls())

	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("Two", now.Add(-time.Minute)))
	require.NoError(t, err)

	for _, q := range variants {
		page, err := f.svc.Stories.ListPublic(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total, "%+v", q)
	}
}

func TestStoryCategoryFilterKeepsItsOwnKey(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := publishedStory("Service news", f.clock.Now().Add(-time.Hour))
	in.Category = "News"
	_, err := f.svc.Stories.Create(ctx, admin, in)
	require.NoError(t, err)
	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("Other", f.clock.Now().Add(-time.Hour)))
	require.NoError(t, err)

	news, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{Category: " news "})
	require.NoError(t, err)
	all, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), news.Total)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 2, f.stories.listCalls())
}

func TestStoryPagesBeyondInvalidationRangeExpireWithTTL(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{Page: 4})
	require.NoError(t, err)
	_, err = f.svc.Stories.Create(ctx, admin, publishedStory("New", f.clock.Now()))
	require.NoError(t, err)
	_, err = f.svc.Stories.ListPublic(ctx, content.ListQuery{Page: 4})
	require.NoError(t, err)

	assert.Equal(t, 1, f.stories.listCalls())
}

func TestStoryOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := usercontext.Actor{UserID: 7}
	other := usercontext.Actor{UserID: 8}

	own, err := f.svc.Stories.Create(ctx, author, StoryInput{Title: "Mine", Content: "x"})
	require.NoError(t, err)

	_, err = f.svc.Stories.Update(ctx, other, own.ID, StoryInput{Title: "Stolen", Content: "x"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(f.svc.Stories.Delete(ctx, other, own.ID)))

	updated, err := f.svc.Stories.Update(ctx, author, own.ID, StoryInput{Title: "Still mine", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Still mine", updated.Title)

	require.NoError(t, f.svc.Stories.Delete(ctx, admin, own.ID))
	_, err = f.svc.Stories.Get(ctx, own.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestStoryValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Stories.Create(context.Background(), admin, StoryInput{Content: "x"})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "title")
}

func TestStoryTagsAreCleaned(t *testing.T) {
	f := newFixture()

	story, err := f.svc.Stories.Create(context.Background(), admin, StoryInput{
		Title:   "Tags",
		Content: "x",
		Tags:    []string{" Hope ", "", "hope", "Service"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hope", "Service"}, []string(story.Tags))
}

func TestStorySweepPublishedEvictsLists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	start := f.clock.Now()

	_, err := f.svc.Stories.Create(ctx, admin, publishedStory("Scheduled", start.Add(30*time.Second)))
	require.NoError(t, err)

	page, err := f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	f.clock.Advance(time.Minute)
	n, err := f.svc.Stories.SweepPublished(ctx, start, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err = f.svc.Stories.ListPublic(ctx, content.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Scheduled", page.Data[0].Title)
}

func TestStoryRecordViewWithoutCounter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	story, err := f.svc.Stories.Create(ctx, admin, StoryInput{Title: "Viewed", Content: "x"})
	require.NoError(t, err)

	f.svc.Stories.RecordView(ctx, story.ID)
	f.svc.Stories.RecordView(ctx, story.ID)
	require.NoError(t, f.svc.Stories.FlushViews(ctx))

	row, err := f.stories.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), row.Views)
}
