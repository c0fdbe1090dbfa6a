package memory

import (
	"context"
	"slices"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

type GroupStore struct {
	table[domain.Group]
}

func NewGroupStore() *GroupStore {
	s := &GroupStore{}
	s.init()
	return s
}

func copyGroup(g domain.Group) domain.Group {
	g.Members = slices.Clone(g.Members)
	return g
}

func (s *GroupStore) Create(_ context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = newID()
	}
	if _, ok := s.rows[g.ID]; ok {
		return domain.NewError(domain.ErrAlreadyExists, "group already exists")
	}
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now
	s.rows[g.ID] = copyGroup(*g)
	return nil
}

func (s *GroupStore) FindForMember(_ context.Context, groupID, userID string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.rows[groupID]
	if !ok || !g.HasMember(userID) {
		return nil, domain.NewError(domain.ErrNotFound, "group not found")
	}
	out := copyGroup(g)
	return &out, nil
}

func (s *GroupStore) ListForMember(_ context.Context, userID string) ([]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Group{}
	for _, g := range s.values() {
		if g.HasMember(userID) {
			out = append(out, copyGroup(g))
		}
	}
	return out, nil
}

// mutate applies fn to the group when guard accepts it.
func (s *GroupStore) mutate(groupID string, guard func(domain.Group) bool, fn func(*domain.Group)) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rows[groupID]
	if !ok || !guard(g) {
		return nil, domain.NewError(domain.ErrNotFound, "group not found")
	}
	g = copyGroup(g)
	fn(&g)
	g.UpdatedAt = time.Now().UTC()
	s.rows[groupID] = g
	out := copyGroup(g)
	return &out, nil
}

func (s *GroupStore) Rename(_ context.Context, groupID, creatorID, name string) (*domain.Group, error) {
	return s.mutate(groupID,
		func(g domain.Group) bool { return g.CreatorID == creatorID },
		func(g *domain.Group) { g.Name = name },
	)
}

func (s *GroupStore) AddMembers(_ context.Context, groupID, creatorID string, members []string) (*domain.Group, error) {
	return s.mutate(groupID,
		func(g domain.Group) bool { return g.CreatorID == creatorID },
		func(g *domain.Group) { g.Members = domain.Dedupe(append(g.Members, members...)) },
	)
}

func (s *GroupStore) RemoveMember(_ context.Context, groupID, memberID string) (*domain.Group, error) {
	return s.mutate(groupID,
		func(g domain.Group) bool {
			return g.HasMember(memberID) && g.CreatorID != memberID && len(g.Members) > 1
		},
		func(g *domain.Group) {
			g.Members = slices.DeleteFunc(g.Members, func(id string) bool { return id == memberID })
		},
	)
}

func (s *GroupStore) Delete(_ context.Context, groupID, creatorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rows[groupID]
	if !ok || g.CreatorID != creatorID {
		return domain.NewError(domain.ErrNotFound, "group not found")
	}
	delete(s.rows, groupID)
	return nil
}
