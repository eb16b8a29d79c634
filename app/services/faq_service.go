package services

import (
	"context"
	"strings"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

const faqNotFound = "FAQ not found"

type FAQInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type FAQService struct {
	repo  repository.FAQRepository
	cache *content.Cache
}

func (s *FAQService) List(ctx context.Context, q content.ListQuery) (content.Page[models.FAQ], error) {
	q = q.Only(content.FilterSearch).Normalize(FAQsPerPage)
	return listPaged(ctx, s.cache, content.EntityFAQ, q, s.repo.List)
}

func (s *FAQService) Get(ctx context.Context, id uint) (*models.FAQ, error) {
	return getOne(ctx, s.cache, content.EntityFAQ, id, faqNotFound, func(ctx context.Context) (*models.FAQ, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *FAQService) Create(ctx context.Context, in FAQInput) (*models.FAQ, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	faq := &models.FAQ{Title: strings.TrimSpace(in.Title), Content: in.Content}
	if err := s.repo.Create(ctx, faq); err != nil {
		return nil, storeErr(err, faqNotFound)
	}
	s.invalidate(ctx, faq.ID)
	return faq, nil
}

func (s *FAQService) Update(ctx context.Context, id uint, in FAQInput) (*models.FAQ, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	faq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, faqNotFound)
	}
	faq.Title = strings.TrimSpace(in.Title)
	faq.Content = in.Content
	if err := s.repo.Update(ctx, faq); err != nil {
		return nil, storeErr(err, faqNotFound)
	}
	s.invalidate(ctx, faq.ID)
	return faq, nil
}

func (s *FAQService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, faqNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *FAQService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityFAQ,
		PerPage: FAQsPerPage,
		Scopes:  bothScopes,
		Items:   []interface{}{id},
	})
}
