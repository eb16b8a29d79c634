package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const eventNotFound = "Event not found"

// EventInput is the writable part of an event; EndTime must follow StartTime.
type EventInput struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Location    string    `json:"location" validate:"max=255"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type EventService struct {
	repo      repository.EventRepository
	cache     *content.Cache
	storage   storage.Storage
	documents *DocumentService
	now       func() time.Time
	maxBytes  int64
}

func (s *EventService) List(ctx context.Context, q content.ListQuery) (content.Page[models.Event], error) {
	q = q.Only(content.FilterSearch).Normalize(EventsPerPage)
	return listPaged(ctx, s.cache, content.EntityEvent, q, s.repo.List)
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	return getOne(ctx, s.cache, content.EntityEvent, id, eventNotFound, func(ctx context.Context) (*models.Event, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	event := &models.Event{}
	applyEvent(event, in)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	s.invalidate(ctx, event.ID)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id uint, in EventInput) (*models.Event, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	applyEvent(event, in)
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	s.invalidate(ctx, event.ID)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, eventNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, eventNotFound)
	}
	if event.HasAttachment() {
		s.removeObject(ctx, event.FilePath)
	}
	s.invalidate(ctx, id)
	return nil
}

// Attach stores f as the event's attachment, replacing any previous one.
func (s *EventService) Attach(ctx context.Context, id uint, f FileUpload) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, eventNotFound)
	}

	stored, err := storeUpload(ctx, s.storage, f, storage.EventsPrefix, s.maxBytes, s.now(), s.attachmentExists)
	if err != nil {
		return nil, err
	}

	previous := event.FilePath
	event.FileName = displayName(f.Filename)
	event.FileSize = stored.Size
	event.FileMime = stored.MimeType
	event.FilePath = stored.Key
	if err := s.repo.Update(ctx, event); err != nil {
		s.removeObject(ctx, stored.Key)
		return nil, storeErr(err, eventNotFound)
	}
	if previous != "" && previous != stored.Key {
		s.removeObject(ctx, previous)
	}
	s.invalidate(ctx, event.ID)
	return event, nil
}

// Detach removes the attachment.
func (s *EventService) Detach(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	if !event.HasAttachment() {
		return event, nil
	}
	previous := event.FilePath
	event.ClearAttachment()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	s.removeObject(ctx, previous)
	s.invalidate(ctx, event.ID)
	return event, nil
}

// OpenAttachment opens the attachment for download. The row is read
// uncached because the storage path is not part of the cached JSON.
func (s *EventService) OpenAttachment(ctx context.Context, id uint) (*models.Event, *storage.Object, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, storeErr(err, eventNotFound)
	}
	if !event.HasAttachment() {
		return nil, nil, apperr.NotFound("This event has no attachment")
	}
	if s.storage == nil {
		return nil, nil, apperr.StorageUnavailable(errors.New("no storage configured"))
	}
	obj, err := s.storage.Get(ctx, event.FilePath)
	if err != nil {
		return nil, nil, apperr.StorageUnavailable(err)
	}
	if obj.ContentType == "" || obj.ContentType == "application/octet-stream" {
		obj.ContentType = event.FileMime
	}
	return event, obj, nil
}

// PublishAttachment copies the attachment into the resources as a new document.
func (s *EventService) PublishAttachment(ctx context.Context, actor usercontext.Actor, id uint, isPublic bool) (*models.Document, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, eventNotFound)
	}
	if !event.HasAttachment() {
		return nil, apperr.NotFound("This event has no attachment")
	}
	return s.documents.CreateFromObject(ctx, actor, event.FilePath, event.FileName, event.FileMime, event.FileSize, isPublic)
}

func (s *EventService) attachmentExists(ctx context.Context, name string) (bool, error) {
	if s.storage == nil {
		return false, nil
	}
	return s.storage.Exists(ctx, storage.ObjectKey(storage.EventsPrefix, name))
}

func (s *EventService) removeObject(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warnf("[EventService] could not delete %s: %v", key, err)
	}
}

func (s *EventService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityEvent,
		PerPage: EventsPerPage,
		Scopes:  bothScopes,
		Items:   []interface{}{id},
	})
}

func applyEvent(event *models.Event, in EventInput) {
	event.Title = strings.TrimSpace(in.Title)
	event.Description = in.Description
	event.Location = strings.TrimSpace(in.Location)
	event.StartTime = in.StartTime.UTC()
	event.EndTime = in.EndTime.UTC()
}
