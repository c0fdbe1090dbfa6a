package memory

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

type FriendStore struct {
	table[domain.FriendEdge]
}

func NewFriendStore() *FriendStore {
	s := &FriendStore{}
	s.init()
	return s
}

func (s *FriendStore) between(a, b string) (domain.FriendEdge, bool) {
	key := domain.PairKey(a, b)
	for _, e := range s.rows {
		if e.PairKey == key {
			return e, true
		}
	}
	return domain.FriendEdge{}, false
}

func (s *FriendStore) Create(_ context.Context, e *domain.FriendEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.between(e.UserID, e.FriendID); ok {
		return domain.NewError(domain.ErrAlreadyExists, "a friend request already exists between these users")
	}
	if e.ID == "" {
		e.ID = newID()
	}
	now := time.Now().UTC()
	e.PairKey = domain.PairKey(e.UserID, e.FriendID)
	e.CreatedAt, e.UpdatedAt = now, now
	s.rows[e.ID] = *e
	return nil
}

func (s *FriendStore) FindBetween(_ context.Context, a, b string) (*domain.FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.between(a, b)
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "friendship not found")
	}
	return &e, nil
}

func (s *FriendStore) Accept(_ context.Context, edgeID, recipientID string) (*domain.FriendEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[edgeID]
	if !ok || e.FriendID != recipientID || e.Status != domain.FriendPending {
		return nil, domain.NewError(domain.ErrNotFound, "friend request not found")
	}
	e.Status = domain.FriendAccepted
	e.UpdatedAt = time.Now().UTC()
	s.rows[edgeID] = e
	return &e, nil
}

func (s *FriendStore) DeleteBetween(_ context.Context, a, b string) (*domain.FriendEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.between(a, b)
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "friendship not found")
	}
	delete(s.rows, e.ID)
	return &e, nil
}

func (s *FriendStore) ListIncoming(_ context.Context, userID string) ([]domain.FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.FriendEdge{}
	for _, e := range s.values() {
		if e.FriendID == userID && e.Status == domain.FriendPending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *FriendStore) FriendIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, e := range s.values() {
		if e.Status != domain.FriendAccepted || (e.UserID != userID && e.FriendID != userID) {
			continue
		}
		if other := e.Other(userID); other != userID {
			ids = append(ids, other)
		}
	}
	return domain.Dedupe(ids), nil
}
