package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gymclass/internal/domain/member"
	domain "gymclass/internal/domain/schedule"

	"github.com/google/uuid"
)

// memberDirectory is an in-memory stand-in for the external member
// directory, seeded with sample members for development and tests.
type memberDirectory struct {
	members map[uuid.UUID]*member.Member
	mutex   sync.RWMutex
}

// NewMemberDirectory creates the in-memory member directory
func NewMemberDirectory() member.Directory {
	repo := &memberDirectory{
		members: make(map[uuid.UUID]*member.Member),
	}

	repo.seedData()
	return repo
}

func (r *memberDirectory) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return m, nil
}

func (r *memberDirectory) Search(ctx context.Context, query string, limit int) ([]*member.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*member.Member, 0)
	for _, m := range r.members {
		if !m.Active {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(m.FullName), q) ||
			strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Add registers a member, used by seeding and tests.
func (r *memberDirectory) Add(m *member.Member) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.members[m.MemberID] = m
}

func (r *memberDirectory) seedData() {
	seed := []struct {
		name  string
		email string
	}{
		{"Alice Nguyen", "alice.nguyen@example.com"},
		{"Bruno Silva", "bruno.silva@example.com"},
		{"Chen Wei", "chen.wei@example.com"},
		{"Dana Petrov", "dana.petrov@example.com"},
		{"Elif Kaya", "elif.kaya@example.com"},
	}

	for _, s := range seed {
		m := &member.Member{
			MemberID: uuid.New(),
			FullName: s.name,
			Email:    s.email,
			Active:   true,
			JoinedAt: time.Now(),
		}
		r.members[m.MemberID] = m
	}
}
