package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
)

func strPtr(s string) *string { return &s }

func enableNotifications(t *testing.T, f *fixture, emails string) {
	t.Helper()
	_, err := f.svc.Settings.Update(context.Background(), SettingInput{
		SiteTitle:            "District 5B",
		ContactNotifyEnabled: true,
		ContactNotifyEmails:  emails,
	})
	require.NoError(t, err)
}

func TestSubmissionSubmitNotifiesReviewers(t *testing.T) {
	f := newFixture()
	enableNotifications(t, f, "chair@district5b.test")

	sub, err := f.svc.Submissions.Submit(context.Background(), SubmissionInput{
		Title:   "My first year",
		Content: "It got better.",
		Author:  strPtr("Sam"),
		Email:   strPtr(" Sam@Example.org "),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusNew, sub.Status)
	assert.Equal(t, "sam@example.org", *sub.Email)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"chair@district5b.test"}, sent[0].To)
	assert.Equal(t, mail.TemplateSubmissionNotification, sent[0].Template)
	assert.Equal(t, "https://district5b.test/admin/submissions/1", sent[0].Data["ReviewURL"])
}

func TestSubmissionApproveCreatesDraftStory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, err := f.svc.Submissions.Submit(ctx, SubmissionInput{
		Title: "Hello World", Content: "<p>Grateful.</p>", Author: strPtr("Sam"), Anonymous: true,
	})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.messages())

	story, err := f.svc.Submissions.Approve(ctx, admin, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", story.Slug)
	assert.Equal(t, "Anonymous", story.Author)
	assert.False(t, story.IsActive)
	require.NotNil(t, story.UserID)
	assert.Equal(t, admin.UserID, *story.UserID)

	got, err := f.svc.Submissions.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusApproved, got.Status)
	require.NotNil(t, got.StoryID)
	assert.Equal(t, story.ID, *got.StoryID)

	_, err = f.svc.Submissions.Approve(ctx, admin, sub.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestSubmissionApproveRollsBackStoryWhenMarkingFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, err := f.svc.Submissions.Submit(ctx, SubmissionInput{Title: "Hello World", Content: "<p>Grateful.</p>"})
	require.NoError(t, err)

	f.submissions.updateErr = errors.New("deadlock found")
	_, err = f.svc.Submissions.Approve(ctx, admin, sub.ID)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, f.stories.all())

	f.submissions.updateErr = nil
	story, err := f.svc.Submissions.Approve(ctx, admin, sub.ID)
	require.NoError(t, err)
	assert.Len(t, f.stories.all(), 1)
	assert.Equal(t, "hello-world", story.Slug)

	got, err := f.svc.Submissions.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusApproved, got.Status)
}

func TestSubmissionRejectMailsAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	withEmail, err := f.svc.Submissions.Submit(ctx, SubmissionInput{Title: "A", Content: "x", Email: strPtr("a@example.org")})
	require.NoError(t, err)
	withoutEmail, err := f.svc.Submissions.Submit(ctx, SubmissionInput{Title: "B", Content: "x"})
	require.NoError(t, err)

	rejected, err := f.svc.Submissions.Reject(ctx, withEmail.ID, RejectInput{Reason: "Too short"})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusRejected, rejected.Status)

	_, err = f.svc.Submissions.Reject(ctx, withoutEmail.ID, RejectInput{})
	require.NoError(t, err)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a@example.org"}, sent[0].To)
	assert.Equal(t, mail.TemplateSubmissionRejected, sent[0].Template)
	assert.Equal(t, "Too short", sent[0].Data["Reason"])

	_, err = f.svc.Submissions.Approve(ctx, admin, withEmail.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestSubmissionStatusQueuesRefreshAfterReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, err := f.svc.Submissions.Submit(ctx, SubmissionInput{Title: "Queue", Content: "x"})
	require.NoError(t, err)

	pending, err := f.svc.Submissions.List(ctx, content.ListQuery{Status: "new"})
	require.NoError(t, err)
	require.Len(t, pending.Data, 1)

	_, err = f.svc.Submissions.Reject(ctx, sub.ID, RejectInput{})
	require.NoError(t, err)

	pending, err = f.svc.Submissions.List(ctx, content.ListQuery{Status: "NEW"})
	require.NoError(t, err)
	assert.Empty(t, pending.Data)
}

func TestSubmissionMailFailureDoesNotFailSubmit(t *testing.T) {
	f := newFixture()
	enableNotifications(t, f, "chair@district5b.test")
	f.mailer.err = assert.AnError

	sub, err := f.svc.Submissions.Submit(context.Background(), SubmissionInput{Title: "Still saved", Content: "x"})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
}
