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

const documentNotFound = "Document not found"

// DocumentInput updates a document's display name and visibility.
type DocumentInput struct {
	OriginalFileName string `json:"original_file_name" validate:"required,max=255"`
	IsPublic         bool   `json:"is_public"`
}

// Download is an open document ready to stream.
type Download struct {
	Document *models.Document
	Object   *storage.Object
}

type DocumentService struct {
	repo     repository.DocumentRepository
	cache    *content.Cache
	storage  storage.Storage
	now      func() time.Time
	maxBytes int64
}

// ListPublic returns public file documents ordered by display name.
func (s *DocumentService) ListPublic(ctx context.Context, q content.ListQuery) (content.Page[models.Document], error) {
	q.Scope = content.ScopePublic
	return s.list(ctx, q)
}

func (s *DocumentService) ListAdmin(ctx context.Context, q content.ListQuery) (content.Page[models.Document], error) {
	q.Scope = content.ScopeAdmin
	return s.list(ctx, q)
}

func (s *DocumentService) list(ctx context.Context, q content.ListQuery) (content.Page[models.Document], error) {
	q = q.Only(content.FilterSearch).Normalize(DocumentsPerPage)
	return listPaged(ctx, s.cache, content.EntityDocument, q, s.repo.List)
}

func (s *DocumentService) Get(ctx context.Context, id uint) (*models.Document, error) {
	return getOne(ctx, s.cache, content.EntityDocument, id, documentNotFound, func(ctx context.Context) (*models.Document, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// OpenPublic opens a document for an anonymous download. Hidden documents
// and storage failures both look like a missing document.
func (s *DocumentService) OpenPublic(ctx context.Context, id uint) (*Download, error) {
	doc, err := s.row(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsPubliclyVisible() {
		return nil, apperr.NotFound(documentNotFound)
	}
	dl, err := s.open(ctx, doc)
	if err != nil {
		log.Warnf("[DocumentService] public download of document %d failed: %v", id, err)
		return nil, apperr.NotFound(documentNotFound)
	}
	return dl, nil
}

// Open opens any document (admin download).
func (s *DocumentService) Open(ctx context.Context, id uint) (*Download, error) {
	doc, err := s.row(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, doc)
}

// row reads uncached: the storage path is not part of the cached JSON.
func (s *DocumentService) row(ctx context.Context, id uint) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, documentNotFound)
	}
	return doc, nil
}

func (s *DocumentService) open(ctx context.Context, doc *models.Document) (*Download, error) {
	if s.storage == nil {
		return nil, apperr.StorageUnavailable(errors.New("no storage configured"))
	}
	obj, err := s.storage.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if obj.ContentType == "" || obj.ContentType == "application/octet-stream" {
		obj.ContentType = doc.MimeType
	}
	return &Download{Document: doc, Object: obj}, nil
}

// Upload stores a new document under documents/ and records it.
func (s *DocumentService) Upload(ctx context.Context, actor usercontext.Actor, f FileUpload, isPublic bool) (*models.Document, error) {
	stored, err := storeUpload(ctx, s.storage, f, storage.DocumentsPrefix, s.maxBytes, s.now(), s.repo.FileNameExists)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		FileName:         stored.Name,
		OriginalFileName: displayName(f.Filename),
		FileSize:         stored.Size,
		MimeType:         stored.MimeType,
		AppType:          stored.AppType,
		UploadedBy:       actor.UserID,
		StoragePath:      stored.Key,
		IsPublic:         isPublic,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.removeObject(ctx, stored.Key)
		return nil, storeErr(err, documentNotFound)
	}
	s.invalidate(ctx, doc.ID)
	return doc, nil
}

// CreateFromObject copies an existing object into documents/ as a new document.
func (s *DocumentService) CreateFromObject(ctx context.Context, actor usercontext.Actor, srcKey, originalName, mimeType string, size int64, isPublic bool) (*models.Document, error) {
	if s.storage == nil {
		return nil, apperr.StorageUnavailable(errors.New("no storage configured"))
	}

	name := srcKeyName(srcKey)
	taken, err := s.repo.FileNameExists(ctx, name)
	if err != nil {
		return nil, storeErr(err, documentNotFound)
	}
	if taken {
		return nil, apperr.Conflict("This file has already been published as a resource")
	}

	dstKey := storage.ObjectKey(storage.DocumentsPrefix, name)
	if err := s.storage.Copy(ctx, srcKey, dstKey); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}

	appType := models.AppTypeFile
	if strings.HasPrefix(mimeType, "image/") {
		appType = models.AppTypeImage
	}
	doc := &models.Document{
		FileName:         name,
		OriginalFileName: displayName(originalName),
		FileSize:         size,
		MimeType:         mimeType,
		AppType:          appType,
		UploadedBy:       actor.UserID,
		StoragePath:      dstKey,
		IsPublic:         isPublic,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.removeObject(ctx, dstKey)
		return nil, storeErr(err, documentNotFound)
	}
	s.invalidate(ctx, doc.ID)
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, id uint, in DocumentInput) (*models.Document, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, documentNotFound)
	}
	doc.OriginalFileName = strings.TrimSpace(in.OriginalFileName)
	doc.IsPublic = in.IsPublic
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, storeErr(err, documentNotFound)
	}
	s.invalidate(ctx, doc.ID)
	return doc, nil
}

// Delete removes the row and its stored object. A failed object removal is
// logged; the row is gone either way.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, documentNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, documentNotFound)
	}
	s.removeObject(ctx, doc.StoragePath)
	s.invalidate(ctx, id)
	return nil
}

func (s *DocumentService) removeObject(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warnf("[DocumentService] could not delete %s: %v", key, err)
	}
}

func (s *DocumentService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityDocument,
		PerPage: DocumentsPerPage,
		Scopes:  bothScopes,
		Items:   []interface{}{id},
	})
}

// displayName strips any client-side directory from an uploaded file name.
func displayName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}
	return name
}

func srcKeyName(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}
