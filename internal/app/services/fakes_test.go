package services

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/filestorage"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

var fixedTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fakeStudents struct {
	byID    map[int64]*models.Student
	nextID  int64
	updated map[string]interface{}
	deleted []int64
	pages   int
}

func newFakeStudents(seed ...models.Student) *fakeStudents {
	f := &fakeStudents{byID: map[int64]*models.Student{}}
	for i := range seed {
		s := seed[i]
		f.nextID++
		if s.ID == 0 {
			s.ID = f.nextID
		}
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeStudents) find(studentID string) *models.Student {
	for _, s := range f.byID {
		if s.StudentID == studentID {
			return s
		}
	}
	return nil
}

func (f *fakeStudents) Create(_ context.Context, s *models.Student) error {
	if f.find(s.StudentID) != nil {
		return apperrors.ErrStudentIDExists
	}
	f.nextID++
	s.ID = f.nextID
	s.IsActive = true
	s.CreatedAt = fixedTime
	copied := *s
	f.byID[s.ID] = &copied
	return nil
}

func (f *fakeStudents) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	if s := f.find(studentID); s != nil {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) UpdateProfile(_ context.Context, studentID string, fields map[string]interface{}) error {
	s := f.find(studentID)
	if s == nil {
		return apperrors.ErrStudentNotFound
	}
	f.updated = fields
	if phone, ok := fields["phone"].(string); ok {
		s.Phone = phone
	}
	return nil
}

func (f *fakeStudents) AdminUpdate(_ context.Context, id int64, fields map[string]interface{}) error {
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	f.updated = fields
	if v, ok := fields["is_verified"].(bool); ok {
		s.IsVerified = v
	}
	if v, ok := fields["is_active"].(bool); ok {
		s.IsActive = v
	}
	return nil
}

func (f *fakeStudents) AdminList(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.pages++
	all := make([]models.Student, 0, len(f.byID))
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.byID[id]; ok {
			all = append(all, *s)
		}
	}
	start := int(filter.Offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(filter.Limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeStudents) Recent(_ context.Context, n uint64) ([]models.Student, error) {
	list, _, err := f.AdminList(context.Background(), models.StudentFilter{Limit: n})
	return list, err
}

func (f *fakeStudents) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStudents) UpdateLastLogin(_ context.Context, id int64) error {
	if s, ok := f.byID[id]; ok {
		now := fixedTime
		s.LastLoginAt = &now
	}
	return nil
}

type fakeAdmins struct {
	admin *models.Admin
}

func (f *fakeAdmins) GetByUsernameOrEmail(_ context.Context, login string) (*models.Admin, error) {
	if f.admin != nil && (f.admin.Username == login || f.admin.Email == login) {
		return f.admin, nil
	}
	return nil, apperrors.ErrAdminNotFound
}

func (f *fakeAdmins) UpdateLastLogin(context.Context, int64) error { return nil }

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.SystemLog
}

func (f *fakeAudit) Record(_ context.Context, l *models.SystemLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *l)
}

func (f *fakeAudit) List(_ context.Context, page helpers.Page) ([]models.SystemLog, int, error) {
	return f.entries, len(f.entries), nil
}

func (f *fakeAudit) actions() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeHostels struct {
	HostelStore
	hostels  map[int64]*models.Hostel
	imageURL string
	filter   models.PropertyFilter
}

func (f *fakeHostels) GetAll(_ context.Context, filter models.PropertyFilter) ([]models.Hostel, error) {
	f.filter = filter
	return []models.Hostel{}, nil
}

func (f *fakeHostels) Search(_ context.Context, _ string, filter models.PropertyFilter) ([]models.Hostel, error) {
	f.filter = filter
	return []models.Hostel{}, nil
}

func (f *fakeHostels) GetByID(_ context.Context, id int64) (*models.Hostel, error) {
	if h, ok := f.hostels[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, apperrors.ErrHostelNotFound
}

func (f *fakeHostels) Create(_ context.Context, h *models.Hostel) error {
	h.ID = int64(len(f.hostels) + 1)
	f.hostels[h.ID] = h
	return nil
}

func (f *fakeHostels) SetImageURL(_ context.Context, id int64, url string) error {
	f.imageURL = url
	f.hostels[id].ImageURL = url
	return nil
}

type fakePGs struct {
	PGStore
	pgs map[int64]*models.PG
}

func (f *fakePGs) GetAll(context.Context, models.PropertyFilter) ([]models.PG, error) {
	return []models.PG{}, nil
}

func (f *fakePGs) GetByID(_ context.Context, id int64) (*models.PG, error) {
	if p, ok := f.pgs[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrPGNotFound
}

type fakeStorage struct {
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveImage(fh *multipart.FileHeader, subPath string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := filestorage.PublicPrefix + "/" + subPath + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

type cancelCall struct {
	pt    models.PropertyType
	id    int64
	owner string
	notes string
}

type fakeBookings struct {
	BookingStore
	created    []models.Booking
	byID       map[int64]*models.Booking
	cancelled  []cancelCall
	approved   []int64
	listed     []models.BookingFilter
	createErr  error
	approveErr error
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = int64(len(f.created) + 1)
	b.CreatedAt = fixedTime
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, pt models.PropertyType, id int64) (*models.Booking, error) {
	if b, ok := f.byID[id]; ok && b.PropertyType == pt {
		copied := *b
		return &copied, nil
	}
	return nil, apperrors.ErrBookingNotFound
}

func (f *fakeBookings) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	f.listed = append(f.listed, filter)
	out := []models.Booking{}
	for _, b := range f.byID {
		if filter.PropertyType == nil || *filter.PropertyType == b.PropertyType {
			out = append(out, *b)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookings) ListAll(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	out, _, err := f.List(ctx, filter)
	return out, err
}

func (f *fakeBookings) ListByStudent(_ context.Context, studentID string) ([]models.Booking, error) {
	out := []models.Booking{}
	for id := int64(1); id <= int64(len(f.byID)); id++ {
		if b, ok := f.byID[id]; ok && b.StudentID == studentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Approve(_ context.Context, pt models.PropertyType, id int64, _ models.Decision) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, id)
	if b, ok := f.byID[id]; ok {
		b.Status = models.StatusApproved
	}
	return nil
}

func (f *fakeBookings) Cancel(_ context.Context, pt models.PropertyType, id int64, owner, notes string) error {
	f.cancelled = append(f.cancelled, cancelCall{pt: pt, id: id, owner: owner, notes: notes})
	if b, ok := f.byID[id]; ok {
		b.Status = models.StatusCancelled
	}
	return nil
}

type fakeReviews struct {
	ReviewStore
	upserted []models.Review
	list     []models.Review
}

func (f *fakeReviews) Upsert(_ context.Context, rv *models.Review) error {
	rv.ID = int64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, *rv)
	return nil
}

func (f *fakeReviews) ListForProperty(context.Context, models.PropertyType, int64) ([]models.Review, error) {
	return f.list, nil
}

func (f *fakeReviews) ListByStudent(context.Context, string) ([]models.Review, error) {
	return f.list, nil
}

func (f *fakeReviews) Average(context.Context, models.PropertyType, int64) (float64, int, error) {
	if len(f.list) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range f.list {
		sum += r.Rating
	}
	return float64(sum) / float64(len(f.list)), len(f.list), nil
}

type fakeStats struct {
	StatsStore
	pingErr error
}

func (f *fakeStats) DashboardCounts(context.Context) (*models.Dashboard, error) {
	return &models.Dashboard{TotalStudents: 2, TotalHostels: 3, PendingAllotments: 1}, nil
}

func (f *fakeStats) BookingStats(_ context.Context, pt models.PropertyType) (*models.BookingStats, error) {
	return &models.BookingStats{Total: 1, Pending: 1}, nil
}

func (f *fakeStats) Ping(context.Context) error { return f.pingErr }
