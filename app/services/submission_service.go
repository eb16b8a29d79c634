package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const submissionNotFound = "Submission not found"

type SubmissionInput struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Content   string  `json:"content" validate:"required,max=20000"`
	Author    *string `json:"author" validate:"omitempty,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=200"`
	Anonymous bool    `json:"anonymous"`
}

type RejectInput struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type SubmissionService struct {
	repo     repository.SubmissionRepository
	cache    *content.Cache
	stories  *StoryService
	settings *SettingService
	mailer   mail.Mailer
	appURL   string
}

// Submit stores a visitor's story proposal with status "new".
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*models.StorySubmission, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	sub := &models.StorySubmission{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Author:    optional(in.Author),
		Email:     optional(in.Email),
		Anonymous: in.Anonymous,
		Status:    models.SubmissionStatusNew,
	}
	if sub.Email != nil {
		lowered := strings.ToLower(*sub.Email)
		sub.Email = &lowered
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, storeErr(err, submissionNotFound)
	}
	s.invalidate(ctx, sub.ID)

	if to := s.settings.Recipients(ctx); len(to) > 0 {
		mail.Deliver(ctx, s.mailer, mail.Message{
			To:       to,
			Subject:  "New story submission: " + sub.Title,
			Template: mail.TemplateSubmissionNotification,
			Data: map[string]interface{}{
				"Title":     sub.Title,
				"Author":    sub.DisplayAuthor(),
				"ReviewURL": fmt.Sprintf("%s/admin/submissions/%d", strings.TrimRight(s.appURL, "/"), sub.ID),
			},
		})
	}
	return sub, nil
}

// List filters by q.Status when set.
func (s *SubmissionService) List(ctx context.Context, q content.ListQuery) (content.Page[models.StorySubmission], error) {
	q.Scope = content.ScopeAdmin
	q = q.Only(content.FilterSearch | content.FilterStatus).Normalize(SubmissionsPerPage)
	return listPaged(ctx, s.cache, content.EntitySubmission, q, s.repo.List)
}

func (s *SubmissionService) Get(ctx context.Context, id uint) (*models.StorySubmission, error) {
	return getOne(ctx, s.cache, content.EntitySubmission, id, submissionNotFound, func(ctx context.Context) (*models.StorySubmission, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// Approve turns a pending submission into an inactive story draft owned by
// the approving admin.
func (s *SubmissionService) Approve(ctx context.Context, actor usercontext.Actor, id uint) (*models.Story, error) {
	sub, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	story, err := s.stories.Create(ctx, actor, StoryInput{
		Title:   sub.Title,
		Content: sub.Content,
		Author:  sub.DisplayAuthor(),
	})
	if err != nil {
		return nil, err
	}

	sub.Status = models.SubmissionStatusApproved
	sub.StoryID = &story.ID
	if err := s.repo.Update(ctx, sub); err != nil {
		// the submission is still pending: drop the draft so a retry does not duplicate it
		if delErr := s.stories.Delete(ctx, actor, story.ID); delErr != nil {
			log.Errorf("[SubmissionService] removing draft story %d after failed approval: %v", story.ID, delErr)
		}
		return nil, storeErr(err, submissionNotFound)
	}
	s.invalidate(ctx, sub.ID)
	return story, nil
}

// Reject marks a pending submission rejected and tells the author when an
// address was left.
func (s *SubmissionService) Reject(ctx context.Context, id uint, in RejectInput) (*models.StorySubmission, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	sub, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Status = models.SubmissionStatusRejected
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, storeErr(err, submissionNotFound)
	}
	s.invalidate(ctx, sub.ID)

	if sub.Email != nil {
		mail.Deliver(ctx, s.mailer, mail.Message{
			To:       []string{*sub.Email},
			Subject:  "About your story submission",
			Template: mail.TemplateSubmissionRejected,
			Data: map[string]interface{}{
				"Title":  sub.Title,
				"Reason": strings.TrimSpace(in.Reason),
			},
		})
	}
	return sub, nil
}

func (s *SubmissionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, submissionNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *SubmissionService) pending(ctx context.Context, id uint) (*models.StorySubmission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, submissionNotFound)
	}
	if !sub.IsPending() {
		return nil, apperr.Conflict("Submission was already " + sub.Status)
	}
	return sub, nil
}

func (s *SubmissionService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntitySubmission,
		PerPage: SubmissionsPerPage,
		Scopes:  []string{content.ScopeAdmin},
		Items:   []interface{}{id},
		Extra:   statusPageKeys(),
	})
}

// statusPageKeys are the first pages of the per-status review queues.
func statusPageKeys() []string {
	statuses := []string{models.SubmissionStatusNew, models.SubmissionStatusApproved, models.SubmissionStatusRejected}
	keys := make([]string, 0, len(statuses))
	for _, status := range statuses {
		q := content.ListQuery{Status: status, Scope: content.ScopeAdmin}.Normalize(SubmissionsPerPage)
		keys = append(keys, content.ListKey(content.EntitySubmission, q))
	}
	return keys
}
