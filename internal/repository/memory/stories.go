package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
)

type StoryStore struct {
	table[domain.Story]
}

func NewStoryStore() *StoryStore {
	s := &StoryStore{}
	s.init()
	return s
}

func (s *StoryStore) Create(_ context.Context, st *domain.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = newID()
	}
	s.rows[st.ID] = *st
	return nil
}

func (s *StoryStore) FindByID(_ context.Context, id string) (*domain.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rows[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "story not found")
	}
	return &st, nil
}

func (s *StoryStore) FindByOwner(ctx context.Context, id, ownerID string) (*domain.Story, error) {
	st, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.UserID != ownerID {
		return nil, domain.NewError(domain.ErrNotFound, "story not found")
	}
	return st, nil
}

func (s *StoryStore) ListActiveByOwners(_ context.Context, owners []string, now time.Time) ([]domain.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Story{}
	for _, st := range s.rows {
		if slices.Contains(owners, st.UserID) && st.Active(now) {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.After(out[j].ExpiresAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *StoryStore) Near(_ context.Context, q geo.Query, now time.Time) ([]domain.NearbyStory, error) {
	s.mu.RLock()
	stories := s.values()
	s.mu.RUnlock()

	hits := geo.Nearest(stories, q, geo.Candidate[domain.Story]{
		ID:       func(st domain.Story) string { return st.ID },
		Location: func(st domain.Story) (domain.GeoPoint, bool) { return st.Location, len(st.Location.Coordinates) == 2 },
		Keep:     func(st domain.Story) bool { return st.Active(now) },
		Less:     func(a, b domain.Story) bool { return a.ExpiresAt.After(b.ExpiresAt) },
	})
	out := make([]domain.NearbyStory, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.NearbyStory{Story: h.Item, Distance: h.Distance})
	}
	return out, nil
}

func (s *StoryStore) DeleteByOwner(_ context.Context, id, ownerID string) (*domain.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rows[id]
	if !ok || st.UserID != ownerID {
		return nil, domain.NewError(domain.ErrNotFound, "story not found")
	}
	delete(s.rows, id)
	return &st, nil
}
