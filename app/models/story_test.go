package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryVisibility(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		story   Story
		visible bool
	}{
		{"active and published", Story{IsActive: true, PublishedAt: &past}, true},
		{"published exactly now", Story{IsActive: true, PublishedAt: &now}, true},
		{"scheduled", Story{IsActive: true, PublishedAt: &future}, false},
		{"inactive", Story{IsActive: false, PublishedAt: &past}, false},
		{"active without timestamp", Story{IsActive: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.visible, tc.story.IsPubliclyVisible(now))
		})
	}
}

func TestSyncPublication(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := Story{IsActive: true}
	s.SyncPublication(now)
	require.NotNil(t, s.PublishedAt)
	assert.True(t, s.PublishedAt.Equal(now))

	scheduled := now.Add(24 * time.Hour)
	s = Story{IsActive: true, PublishedAt: &scheduled}
	s.SyncPublication(now)
	assert.True(t, s.PublishedAt.Equal(scheduled), "existing publish time is kept")

	s.IsActive = false
	s.SyncPublication(now)
	assert.Nil(t, s.PublishedAt)
}

func TestReadingTimeFor(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}
	assert.Equal(t, 1, ReadingTimeFor(""))
	assert.Equal(t, 1, ReadingTimeFor(words(200)))
	assert.Equal(t, 2, ReadingTimeFor(words(201)))
	assert.Equal(t, 3, ReadingTimeFor("<p>"+words(450)+"</p>"))
}

func TestStoryOwnedBy(t *testing.T) {
	owner := uint(7)
	s := Story{UserID: &owner}
	assert.True(t, s.OwnedBy(7))
	assert.False(t, s.OwnedBy(8))
	assert.False(t, (&Story{}).OwnedBy(7))
}

func TestDocumentVisibility(t *testing.T) {
	assert.True(t, (&Document{AppType: AppTypeFile, IsPublic: true}).IsPubliclyVisible())
	assert.False(t, (&Document{AppType: AppTypeFile, IsPublic: false}).IsPubliclyVisible())
	assert.False(t, (&Document{AppType: AppTypeImage, IsPublic: true}).IsPubliclyVisible())
}

func TestSubmissionDisplayAuthor(t *testing.T) {
	name := "Rita"
	assert.Equal(t, "Rita", (&StorySubmission{Author: &name}).DisplayAuthor())
	assert.Equal(t, "Anonymous", (&StorySubmission{Author: &name, Anonymous: true}).DisplayAuthor())
	assert.Equal(t, "Anonymous", (&StorySubmission{}).DisplayAuthor())
}
