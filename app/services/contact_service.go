package services

import (
	"context"
	"strings"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const contactNotFound = "Contact message not found"

type ContactInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email,max=200"`
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type ContactService struct {
	repo     repository.ContactRepository
	cache    *content.Cache
	settings *SettingService
	mailer   mail.Mailer
}

// Submit stores a contact form message and notifies the configured recipients.
func (s *ContactService) Submit(ctx context.Context, actor usercontext.Actor, in ContactInput) (*models.Contact, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	contact := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: optional(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		contact.UserID = &uid
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, storeErr(err, contactNotFound)
	}
	s.invalidate(ctx, contact.ID)

	if to := s.settings.Recipients(ctx); len(to) > 0 {
		subject := "New contact message"
		if contact.Subject != nil {
			subject += ": " + *contact.Subject
		}
		data := map[string]interface{}{
			"Name":    contact.Name,
			"Email":   contact.Email,
			"Message": contact.Message,
		}
		if contact.Subject != nil {
			data["Subject"] = *contact.Subject
		}
		mail.Deliver(ctx, s.mailer, mail.Message{
			To:       to,
			Subject:  subject,
			Template: mail.TemplateContactNotification,
			Data:     data,
		})
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, q content.ListQuery) (content.Page[models.Contact], error) {
	q.Scope = content.ScopeAdmin
	q = q.Only(content.FilterSearch).Normalize(ContactsPerPage)
	return listPaged(ctx, s.cache, content.EntityContact, q, s.repo.List)
}

func (s *ContactService) Get(ctx context.Context, id uint) (*models.Contact, error) {
	return getOne(ctx, s.cache, content.EntityContact, id, contactNotFound, func(ctx context.Context) (*models.Contact, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, contactNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ContactService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityContact,
		PerPage: ContactsPerPage,
		Scopes:  []string{content.ScopeAdmin},
		Items:   []interface{}{id},
	})
}
