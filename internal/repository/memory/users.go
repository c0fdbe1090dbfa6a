package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
)

type UserStore struct {
	table[domain.User]
}

func NewUserStore() *UserStore {
	s := &UserStore{}
	s.init()
	return s
}

func copyUser(u domain.User) domain.User {
	if u.Location != nil {
		loc := *u.Location
		loc.Coordinates = append([]float64(nil), u.Location.Coordinates...)
		u.Location = &loc
	}
	return u
}

// taken reports whether another user already holds username or email.
func (s *UserStore) taken(id, username, email string) bool {
	for _, u := range s.rows {
		if u.ID == id {
			continue
		}
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return true
		}
	}
	return false
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	if _, ok := s.rows[u.ID]; ok || s.taken(u.ID, u.Username, u.Email) {
		return domain.NewError(domain.ErrAlreadyExists, "user already exists")
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.rows[u.ID] = copyUser(*u)
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	out := copyUser(u)
	return &out, nil
}

func (s *UserStore) match(pred func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.rows {
		if pred(u) {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, domain.NewError(domain.ErrNotFound, "user not found")
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.match(func(u domain.User) bool { return u.Email == email })
}

func (s *UserStore) FindByLogin(_ context.Context, credential string) (*domain.User, error) {
	return s.match(func(u domain.User) bool { return u.Username == credential || u.Email == credential })
}

func (s *UserStore) FindByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.User{}
	for _, id := range domain.Dedupe(ids) {
		if u, ok := s.rows[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	sortByUsername(out)
	return out, nil
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.rows))
	for _, u := range s.rows {
		out = append(out, copyUser(u))
	}
	sortByUsername(out)
	return out, nil
}

func sortByUsername(users []domain.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}

func (s *UserStore) Update(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	var username, email string
	if upd.Username != nil {
		username = *upd.Username
	}
	if upd.Email != nil {
		email = *upd.Email
	}
	if s.taken(id, username, email) {
		return nil, domain.NewError(domain.ErrAlreadyExists, "user already exists")
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = time.Now().UTC()
	s.rows[id] = u
	out := copyUser(u)
	return &out, nil
}

func (s *UserStore) SetLocation(_ context.Context, id string, p domain.GeoPoint) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	u.Location = &p
	u.UpdatedAt = time.Now().UTC()
	u = copyUser(u)
	s.rows[id] = u
	out := copyUser(u)
	return &out, nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	delete(s.rows, id)
	return nil
}

func (s *UserStore) Near(_ context.Context, q geo.Query) ([]domain.NearbyUser, error) {
	s.mu.RLock()
	users := s.values()
	s.mu.RUnlock()

	hits := geo.Nearest(users, q, geo.Candidate[domain.User]{
		ID: func(u domain.User) string { return u.ID },
		Location: func(u domain.User) (domain.GeoPoint, bool) {
			if u.Location == nil {
				return domain.GeoPoint{}, false
			}
			return *u.Location, true
		},
		Less: func(a, b domain.User) bool { return a.Username < b.Username },
	})
	out := make([]domain.NearbyUser, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.NearbyUser{User: copyUser(h.Item), Distance: h.Distance})
	}
	return out, nil
}
