package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. All
// access goes through one mutex, so the transactional closure observes a
// consistent snapshot just like a FOR UPDATE region would.
type fakeStore struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*domain.ClassSession
	bookings   map[uuid.UUID]*domain.Booking
	waitlist   map[uuid.UUID]*domain.WaitlistEntry
	attendance map[uuid.UUID]*domain.AttendanceRecord
	seq        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:   make(map[uuid.UUID]*domain.ClassSession),
		bookings:   make(map[uuid.UUID]*domain.Booking),
		waitlist:   make(map[uuid.UUID]*domain.WaitlistEntry),
		attendance: make(map[uuid.UUID]*domain.AttendanceRecord),
	}
}

func (s *fakeStore) bundle() interfaces.RepoBundle {
	return interfaces.RepoBundle{
		Sessions:   &fakeSessionRepo{s},
		Bookings:   &fakeBookingRepo{s},
		Waitlist:   &fakeWaitlistRepo{s},
		Attendance: &fakeAttendanceRepo{s},
	}
}

// InTx satisfies interfaces.TxManager. The fake has no rollback; service
// code returns errors before mutating, which is what the tests rely on.
func (s *fakeStore) InTx(ctx context.Context, fn func(r interfaces.RepoBundle) error) error {
	return fn(s.bundle())
}

type fakeSessionRepo struct{ s *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *session
	r.s.sessions[session.SessionID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (r *fakeSessionRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *domain.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *session
	cp.Version++
	r.s.sessions[session.SessionID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetActive(ctx context.Context) ([]*domain.ClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ClassSession
	for _, sess := range r.s.sessions {
		if sess.Active {
			cp := *sess
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type fakeBookingRepo struct{ s *fakeStore }

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *booking
	r.s.seq++
	cp.CreatedAt = time.Unix(int64(r.s.seq), 0).UTC()
	r.s.bookings[booking.BookingID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetConfirmedByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.MemberID == memberID && b.SessionID == sessionID && b.Status != domain.BookingCancelled {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) CountConfirmed(ctx context.Context, sessionID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.bookings {
		if b.SessionID == sessionID && b.Status == domain.BookingConfirmed {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	b.CancelReason = reason
	return nil
}

func (r *fakeBookingRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.s.bookings {
		if b.SessionID == sessionID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.s.bookings {
		if b.MemberID == memberID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeWaitlistRepo struct{ s *fakeStore }

func (r *fakeWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.waitlist[entry.EntryID] = &cp
	return nil
}

func (r *fakeWaitlistRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WaitlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.waitlist[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeWaitlistRepo) GetWaitingByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.waitlist {
		if e.MemberID == memberID && e.SessionID == sessionID && e.Status == domain.WaitlistWaiting {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWaitlistRepo) NextWaiting(ctx context.Context, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var head *domain.WaitlistEntry
	for _, e := range r.s.waitlist {
		if e.SessionID != sessionID || e.Status != domain.WaitlistWaiting {
			continue
		}
		if head == nil {
			head = e
			continue
		}
		if e.JoinedAt.Before(head.JoinedAt) ||
			(e.JoinedAt.Equal(head.JoinedAt) && strings.Compare(e.EntryID.String(), head.EntryID.String()) < 0) {
			head = e
		}
	}
	if head == nil {
		return nil, nil
	}
	cp := *head
	return &cp, nil
}

func (r *fakeWaitlistRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WaitlistStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.waitlist[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeWaitlistRepo) CountWaiting(ctx context.Context, sessionID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.waitlist {
		if e.SessionID == sessionID && e.Status == domain.WaitlistWaiting {
			n++
		}
	}
	return n, nil
}

func (r *fakeWaitlistRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.WaitlistEntry
	for _, e := range r.s.waitlist {
		if e.SessionID == sessionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeWaitlistRepo) ExpireWaitingForSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.waitlist {
		if e.SessionID == sessionID && e.Status == domain.WaitlistWaiting {
			e.Status = domain.WaitlistExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeWaitlistRepo) ExpireStale(ctx context.Context, cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.waitlist {
		if e.Status != domain.WaitlistWaiting {
			continue
		}
		sess, ok := r.s.sessions[e.SessionID]
		if !ok || sess.StartsAt.After(cutoff) {
			continue
		}
		e.Status = domain.WaitlistExpired
		n++
	}
	return n, nil
}

type fakeAttendanceRepo struct{ s *fakeStore }

func (r *fakeAttendanceRepo) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *record
	r.s.attendance[record.BookingID] = &cp
	return nil
}

func (r *fakeAttendanceRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.AttendanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.attendance[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeAttendanceRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.AttendanceStatus, markedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.attendance[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	rec.Status = status
	rec.MarkedBy = markedBy
	return nil
}

func (r *fakeAttendanceRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.AttendanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.AttendanceRecord
	for _, rec := range r.s.attendance {
		if rec.SessionID == sessionID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[uuid.UUID]interfaces.SessionOccupancy
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[uuid.UUID]interfaces.SessionOccupancy)}
}

func (c *fakeCache) SetOccupancy(ctx context.Context, sessionID uuid.UUID, occ interfaces.SessionOccupancy, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[sessionID] = occ
	return nil
}

func (c *fakeCache) GetOccupancy(ctx context.Context, sessionID uuid.UUID) (*interfaces.SessionOccupancy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	occ, ok := c.data[sessionID]
	if !ok {
		return nil, nil
	}
	return &occ, nil
}

func (c *fakeCache) DeleteOccupancy(ctx context.Context, sessionID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, sessionID)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeQueue struct {
	mu   sync.Mutex
	jobs []interfaces.NotificationJob
}

func (q *fakeQueue) Enqueue(ctx context.Context, job interfaces.NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) StartWorkers() {}
func (q *fakeQueue) StopWorkers()  {}

func (q *fakeQueue) jobsOfKind(kind interfaces.NotificationKind) []interfaces.NotificationJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []interfaces.NotificationJob
	for _, j := range q.jobs {
		if j.Kind == kind {
			out = append(out, j)
		}
	}
	return out
}

type fakeIdemStore struct {
	mu   sync.Mutex
	data map[string]*domain.IdempotencyRecord
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: make(map[string]*domain.IdempotencyRecord)}
}

func (s *fakeIdemStore) Create(ctx context.Context, record *domain.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.data[record.Key] = &cp
	return nil
}

func (s *fakeIdemStore) GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[key]
	if !ok {
		return nil, interfaces.ErrIdempotencyKeyNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeIdemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
