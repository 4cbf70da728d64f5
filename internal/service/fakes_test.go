package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// In-memory stores backing the unit tests. They mirror the repository
// contracts, including conditional updates under a lock so concurrency
// tests exercise real compare-and-set behavior.

type memUserStore struct {
	mu        sync.Mutex
	nextID    uint
	users     map[uint]*models.User
	bySubject map[string]uint
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		nextID:    1,
		users:     make(map[uint]*models.User),
		bySubject: make(map[string]uint),
	}
}

func (s *memUserStore) GetByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetOrCreateBySubjectID(user *models.User) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.bySubject[user.SubjectID]; ok {
		cp := *s.users[id]
		return &cp, false, nil
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now().UTC()
	cp := *user
	s.users[user.ID] = &cp
	s.bySubject[user.SubjectID] = user.ID
	return user, true, nil
}

func (s *memUserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUserStore) List(offset, limit int) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), int64(len(all)), nil
}

func (s *memUserStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

type memEventStore struct {
	mu      sync.Mutex
	nextID  uint
	events  map[uint]*models.Event
	byToken map[string]uint
}

func newMemEventStore() *memEventStore {
	return &memEventStore{
		nextID:  1,
		events:  make(map[uint]*models.Event),
		byToken: make(map[string]uint),
	}
}

func (s *memEventStore) Create(event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byToken[event.ShareToken]; ok {
		return nil, fmt.Errorf("duplicate share token")
	}
	event.ID = s.nextID
	s.nextID++
	event.CreatedAt = time.Now().UTC()
	cp := *event
	s.events[event.ID] = &cp
	s.byToken[event.ShareToken] = event.ID
	return event, nil
}

func (s *memEventStore) GetByID(id uint) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memEventStore) GetByShareToken(token string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s.events[id]
	return &cp, nil
}

func (s *memEventStore) GetByHostID(hostID uint) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, e := range s.events {
		if e.HostID == hostID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memEventStore) Save(event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *memEventStore) UpdateStatusIf(id uint, from, to models.EventStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func (s *memEventStore) MarkDeleted(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.Status == models.EventDeleted {
		return false, nil
	}
	e.Status = models.EventDeleted
	return true, nil
}

func (s *memEventStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return models.ErrNotFound
	}
	delete(s.byToken, e.ShareToken)
	delete(s.events, id)
	return nil
}

func (s *memEventStore) List(offset, limit int) ([]models.Event, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), int64(len(all)), nil
}

func (s *memEventStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.events)), nil
}

func (s *memEventStore) CountByHostID(hostID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, e := range s.events {
		if e.HostID == hostID {
			n++
		}
	}
	return n, nil
}

func (s *memEventStore) ShareTokenExists(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byToken[token]
	return ok, nil
}

type memPhotoStore struct {
	mu     sync.Mutex
	nextID uint
	photos map[uint]*models.Photos
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{nextID: 1, photos: make(map[uint]*models.Photos)}
}

func (s *memPhotoStore) Create(photo *models.Photos) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	photo.ID = s.nextID
	s.nextID++
	photo.CreatedAt = time.Now().UTC()
	cp := *photo
	s.photos[photo.ID] = &cp
	return nil
}

func (s *memPhotoStore) GetByID(id uint) (*models.Photos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memPhotoStore) byEvent(eventID uint, onlyApproved bool) []models.Photos {
	var out []models.Photos
	for _, p := range s.photos {
		if p.EventID != eventID {
			continue
		}
		if onlyApproved && p.Status != models.PhotoApproved {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memPhotoStore) ListByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.byEvent(eventID, false)
	return window(all, offset, limit), int64(len(all)), nil
}

func (s *memPhotoStore) ListApprovedByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.byEvent(eventID, true)
	return window(all, offset, limit), int64(len(all)), nil
}

func (s *memPhotoStore) AllByEventID(eventID uint) ([]models.Photos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byEvent(eventID, false), nil
}

func (s *memPhotoStore) UpdateStatusIf(id uint, from, to models.ApprovalStatus, moderatorID uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.ModeratedBy = &moderatorID
	p.ModeratedAt = &at
	return true, nil
}

func (s *memPhotoStore) UpdateCaption(id uint, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return models.ErrNotFound
	}
	p.Caption = caption
	return nil
}

func (s *memPhotoStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.photos, id)
	return nil
}

func (s *memPhotoStore) DeleteByEventID(eventID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.photos {
		if p.EventID == eventID {
			delete(s.photos, id)
		}
	}
	return nil
}

func (s *memPhotoStore) CountByEventID(eventID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byEvent(eventID, false))), nil
}

func (s *memPhotoStore) CountApprovedByEventID(eventID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byEvent(eventID, true))), nil
}

func (s *memPhotoStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.photos)), nil
}

func (s *memPhotoStore) SumFileSize() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, p := range s.photos {
		sum += p.FileSize
	}
	return sum, nil
}

func (s *memPhotoStore) Recent(offset, limit int) ([]models.Photos, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Photos, 0, len(s.photos))
	for _, p := range s.photos {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, offset, limit), int64(len(all)), nil
}

type memJobStore struct {
	mu   sync.Mutex
	jobs map[string]models.ExportJob
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: make(map[string]models.ExportJob)}
}

func (s *memJobStore) Put(_ context.Context, job *models.ExportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *memJobStore) Get(_ context.Context, id string) (*models.ExportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &job, nil
}

// recordingNotifier counts sends so tests can assert on signal emission
// without touching delivery.
type recordingNotifier struct {
	mu       sync.Mutex
	welcomed []string
	approved int
	rejected int
	exports  int
}

func (n *recordingNotifier) SendHostWelcomed(toEmail, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, toEmail)
}

func (n *recordingNotifier) SendPhotoApproved(toEmail, name, eventTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved++
}

func (n *recordingNotifier) SendPhotoRejected(toEmail, name, eventTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected++
}

func (n *recordingNotifier) SendExportReady(toEmail, name, eventTitle, downloadURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exports++
}

type memObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjectStorage() *memObjectStorage {
	return &memObjectStorage{objects: make(map[string][]byte)}
}

func (s *memObjectStorage) Upload(key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memObjectStorage) Download(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memObjectStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memObjectStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type memImageService struct {
	mu      sync.Mutex
	nextID  int
	deleted []string
}

func (s *memImageService) Upload(_ io.Reader, _ string) (string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("img-%d", s.nextID)
	return id, []string{"public", "thumbnail"}, nil
}

func (s *memImageService) Delete(imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, imageID)
	return nil
}

func (s *memImageService) GetPublicURL(imageID string) string {
	return "https://images.test/" + imageID + "/public"
}

func (s *memImageService) GetThumbnailURL(imageID string) string {
	return "https://images.test/" + imageID + "/thumbnail"
}

func readerOf(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// fixture wires a full service graph over the in-memory stores.
type fixture struct {
	users    *memUserStore
	events   *memEventStore
	photos   *memPhotoStore
	jobs     *memJobStore
	objects  *memObjectStorage
	images   *memImageService
	notifier *recordingNotifier

	guard       *Guard
	eventSvc    *EventService
	photoSvc    *PhotoService
	shareGate   *ShareAccessGate
	exportSvc   *ExportService
	adminSvc    *AdminService
	resolver    *ActorResolver
	adminEmails map[string]bool
}

func newFixture() *fixture {
	f := &fixture{
		users:       newMemUserStore(),
		events:      newMemEventStore(),
		photos:      newMemPhotoStore(),
		jobs:        newMemJobStore(),
		objects:     newMemObjectStorage(),
		images:      &memImageService{},
		notifier:    &recordingNotifier{},
		adminEmails: map[string]bool{"admin@example.com": true},
	}
	log := zap.NewNop()
	f.guard = NewGuard(f.events)
	f.eventSvc = NewEventService(f.events, f.photos, f.guard, f.objects, f.images, nil, log)
	f.photoSvc = NewPhotoService(f.photos, f.events, f.users, f.guard, f.objects, f.images, f.notifier, nil, log)
	f.shareGate = NewShareAccessGate(f.events, f.photos)
	f.exportSvc = NewExportService(f.jobs, f.events, f.photos, f.users, f.guard, f.objects, f.notifier, log)
	f.adminSvc = NewAdminService(f.users, f.events, f.photos, f.eventSvc, nil, log)
	f.resolver = NewActorResolver(f.users, f.adminEmails, f.notifier, log)
	return f
}

func (f *fixture) host(email string) *models.Actor {
	actor, err := f.resolver.Resolve(&models.VerifiedIdentity{
		SubjectID: "sub-" + email,
		Email:     email,
		Name:      "Host " + email,
	})
	if err != nil {
		panic(err)
	}
	return actor
}

func (f *fixture) admin() *models.Actor {
	return f.host("admin@example.com")
}

func (f *fixture) activeEvent(owner *models.Actor, password string) *models.Event {
	event, err := f.eventSvc.CreateEvent(owner, models.CreateEventRequest{
		Title:    "Wedding",
		Password: password,
	})
	if err != nil {
		panic(err)
	}
	event, err = f.eventSvc.Publish(owner, event.ID)
	if err != nil {
		panic(err)
	}
	return event
}

func (f *fixture) pendingPhoto(eventID uint) *models.Photos {
	photo := &models.Photos{
		EventID:    eventID,
		StorageRef: fmt.Sprintf("events/%d/test.jpg", eventID),
		ImageID:    "img-test",
		Status:     models.PhotoPending,
		FileSize:   1024,
		UploadedAt: time.Now().UTC(),
	}
	if err := f.photos.Create(photo); err != nil {
		panic(err)
	}
	return photo
}
