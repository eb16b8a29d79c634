package services

import (
	"context"
	"strings"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

const rosterNotFound = "Roster member not found"

type RosterInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Title     string  `json:"title" validate:"max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=200"`
	SortOrder int     `json:"sort_order"`
}

type RosterService struct {
	repo  repository.RosterRepository
	cache *content.Cache
}

func (s *RosterService) List(ctx context.Context, q content.ListQuery) (content.Page[models.Roster], error) {
	q = q.Only(content.FilterSearch).Normalize(RosterPerPage)
	return listPaged(ctx, s.cache, content.EntityRoster, q, s.repo.List)
}

func (s *RosterService) Get(ctx context.Context, id uint) (*models.Roster, error) {
	return getOne(ctx, s.cache, content.EntityRoster, id, rosterNotFound, func(ctx context.Context) (*models.Roster, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *RosterService) Create(ctx context.Context, in RosterInput) (*models.Roster, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	member := &models.Roster{}
	applyRoster(member, in)
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, storeErr(err, rosterNotFound)
	}
	s.invalidate(ctx, member.ID)
	return member, nil
}

func (s *RosterService) Update(ctx context.Context, id uint, in RosterInput) (*models.Roster, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, rosterNotFound)
	}
	applyRoster(member, in)
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, storeErr(err, rosterNotFound)
	}
	s.invalidate(ctx, member.ID)
	return member, nil
}

func (s *RosterService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, rosterNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *RosterService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityRoster,
		PerPage: RosterPerPage,
		Scopes:  bothScopes,
		Items:   []interface{}{id},
	})
}

func applyRoster(member *models.Roster, in RosterInput) {
	member.Name = strings.TrimSpace(in.Name)
	member.Title = strings.TrimSpace(in.Title)
	member.Phone = optional(in.Phone)
	member.Email = optional(in.Email)
	member.SortOrder = in.SortOrder
}
