package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
)

// table is an in-memory CRUD store keyed by id.
type table[T any] struct {
	mu    sync.Mutex
	rows  map[uint]T
	next  uint
	id    func(*T) *uint
	lists int
}

func newTable[T any](id func(*T) *uint) *table[T] {
	return &table[T]{rows: map[uint]T{}, id: id}
}

func (t *table[T]) Create(_ context.Context, item *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	*t.id(item) = t.next
	t.rows[t.next] = *item
	return nil
}

func (t *table[T]) GetByID(_ context.Context, id uint) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (t *table[T]) Update(_ context.Context, item *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := *t.id(item)
	if _, ok := t.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	t.rows[id] = *item
	return nil
}

func (t *table[T]) Delete(_ context.Context, id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(t.rows, id)
	return nil
}

// all returns the rows in id order and counts the call as a list query.
func (t *table[T]) all() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lists++
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) listCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lists
}

func paginate[T any](rows []T, q content.ListQuery) ([]T, int64, error) {
	total := int64(len(rows))
	start := q.Offset()
	if start >= len(rows) {
		return []T{}, total, nil
	}
	end := start + q.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total, nil
}

func contains(haystack, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(haystack), needle)
}

type storyRepo struct {
	*table[models.Story]
	// beforeCreate runs ahead of every insert; a non-nil error aborts it.
	beforeCreate func(*models.Story) error
}

func (r *storyRepo) Create(ctx context.Context, s *models.Story) error {
	if r.beforeCreate != nil {
		if err := r.beforeCreate(s); err != nil {
			return err
		}
	}
	return r.table.Create(ctx, s)
}

func newStoryRepo() *storyRepo {
	return &storyRepo{table: newTable(func(s *models.Story) *uint { return &s.ID })}
}

func (r *storyRepo) GetBySlug(_ context.Context, slug string) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *storyRepo) List(_ context.Context, q content.ListQuery, now time.Time) ([]models.Story, int64, error) {
	var rows []models.Story
	for _, s := range r.all() {
		if q.Scope == content.ScopePublic && !s.IsPubliclyVisible(now) {
			continue
		}
		if !contains(s.Title, q.Search) && !contains(s.Content, q.Search) {
			continue
		}
		if q.Category != "" && strings.ToLower(s.Category) != q.Category {
			continue
		}
		rows = append(rows, s)
	}
	if q.Scope == content.ScopePublic {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].PublishedAt.After(*rows[j].PublishedAt) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	}
	return paginate(rows, q)
}

func (r *storyRepo) SlugExists(_ context.Context, slug string, exceptID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.rows {
		if s.Slug == slug && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *storyRepo) CountPublishedBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.rows {
		if s.IsActive && s.PublishedAt != nil && s.PublishedAt.After(from) && !s.PublishedAt.After(to) {
			n++
		}
	}
	return n, nil
}

func (r *storyRepo) AddViews(_ context.Context, counts map[uint]int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range counts {
		if s, ok := r.rows[id]; ok {
			s.Views += uint64(n)
			r.rows[id] = s
		}
	}
	return nil
}

type eventRepo struct {
	*table[models.Event]
}

func (r *eventRepo) List(_ context.Context, q content.ListQuery) ([]models.Event, int64, error) {
	var rows []models.Event
	for _, e := range r.all() {
		if contains(e.Title, q.Search) || contains(e.Description, q.Search) {
			rows = append(rows, e)
		}
	}
	return paginate(rows, q)
}

type documentRepo struct {
	*table[models.Document]
}

func (r *documentRepo) List(_ context.Context, q content.ListQuery) ([]models.Document, int64, error) {
	var rows []models.Document
	for _, d := range r.all() {
		if q.Scope == content.ScopePublic && !d.IsPubliclyVisible() {
			continue
		}
		if contains(d.OriginalFileName, q.Search) {
			rows = append(rows, d)
		}
	}
	return paginate(rows, q)
}

func (r *documentRepo) FileNameExists(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.FileName == name {
			return true, nil
		}
	}
	return false, nil
}

type contactRepo struct {
	*table[models.Contact]
}

func (r *contactRepo) List(_ context.Context, q content.ListQuery) ([]models.Contact, int64, error) {
	return paginate(r.all(), q)
}

type submissionRepo struct {
	*table[models.StorySubmission]
	updateErr error
}

func (r *submissionRepo) Update(ctx context.Context, s *models.StorySubmission) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.table.Update(ctx, s)
}

func (r *submissionRepo) List(_ context.Context, q content.ListQuery) ([]models.StorySubmission, int64, error) {
	var rows []models.StorySubmission
	for _, s := range r.all() {
		if q.Status == "" || s.Status == q.Status {
			rows = append(rows, s)
		}
	}
	return paginate(rows, q)
}

type userRepo struct {
	*table[models.User]
}

func (r *userRepo) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) GetByLogin(_ context.Context, login string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return u.Username == login || strings.EqualFold(u.Email, login)
	})
}

func (r *userRepo) GetByPasswordSetupToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.PasswordSetupToken != "" && u.PasswordSetupToken == token })
}

func (r *userRepo) List(_ context.Context, q content.ListQuery) ([]models.User, int64, error) {
	return paginate(r.all(), q)
}

func (r *userRepo) UsernameExists(_ context.Context, username string, exceptID uint) (bool, error) {
	u, err := r.find(func(u models.User) bool { return u.Username == username && u.ID != exceptID })
	return u != nil, ignoreMissing(err)
}

func (r *userRepo) EmailExists(_ context.Context, email string, exceptID uint) (bool, error) {
	u, err := r.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) && u.ID != exceptID })
	return u != nil, ignoreMissing(err)
}

func ignoreMissing(err error) error {
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	return err
}

type settingRepo struct {
	mu      sync.Mutex
	row     *models.Setting
	ensures int
}

func (r *settingRepo) Get(_ context.Context) (*models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.row
	return &cp, nil
}

func (r *settingRepo) Save(_ context.Context, s *models.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.row = &cp
	return nil
}

func (r *settingRepo) EnsureDefaults(_ context.Context) (*models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensures++
	if r.row == nil {
		def := models.DefaultSetting()
		r.row = &def
	}
	cp := *r.row
	return &cp, nil
}

// memStorage is an in-memory object store; fail makes every call error.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStorage) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), ContentType: m.types[key]}, nil
}

func (m *memStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if m.fail != nil {
		return m.fail
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStorage) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	data, ok := m.objects[src]
	if !ok {
		return storage.ErrNotFound
	}
	m.objects[dst] = append([]byte(nil), data...)
	m.types[dst] = m.types[src]
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc         *Services
	stories     *storyRepo
	events      *eventRepo
	documents   *documentRepo
	contacts    *contactRepo
	submissions *submissionRepo
	users       *userRepo
	settings    *settingRepo
	storage     *memStorage
	mailer      *recordingMailer
	store       *cache.MemoryStore
	clock       *clock
}

func newFixture() *fixture {
	f := &fixture{
		stories:     newStoryRepo(),
		events:      &eventRepo{newTable(func(e *models.Event) *uint { return &e.ID })},
		documents:   &documentRepo{newTable(func(d *models.Document) *uint { return &d.ID })},
		contacts:    &contactRepo{newTable(func(c *models.Contact) *uint { return &c.ID })},
		submissions: &submissionRepo{table: newTable(func(s *models.StorySubmission) *uint { return &s.ID })},
		users:       &userRepo{newTable(func(u *models.User) *uint { return &u.ID })},
		settings:    &settingRepo{},
		storage:     newMemStorage(),
		mailer:      &recordingMailer{},
		store:       cache.NewMemoryStore(),
		clock:       &clock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)},
	}
	f.svc = New(Deps{
		Repos: &repository.Repositories{
			Story:      f.stories,
			Event:      f.events,
			Document:   f.documents,
			Contact:    f.contacts,
			Submission: f.submissions,
			User:       f.users,
			Setting:    f.settings,
		},
		Cache:          content.NewCache(f.store, time.Hour, 3),
		Storage:        f.storage,
		Mailer:         f.mailer,
		Now:            f.clock.Now,
		AppURL:         "https://district5b.test/",
		MaxUploadBytes: 1024 * 1024,
	})
	return f
}
