package memory

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

type MessageStore struct {
	table[domain.Message]
}

func NewMessageStore() *MessageStore {
	s := &MessageStore{}
	s.init()
	return s
}

func (s *MessageStore) Create(_ context.Context, m *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.rows[m.ID] = *m
	return nil
}

func (s *MessageStore) FindBySender(_ context.Context, id, senderID string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.rows[id]
	if !ok || m.SenderID != senderID {
		return nil, domain.NewError(domain.ErrNotFound, "message not found")
	}
	return &m, nil
}

func (s *MessageStore) ListDirect(_ context.Context, a, b string, page domain.Page) ([]domain.Message, error) {
	return s.list(page, func(m domain.Message) bool {
		return !m.IsGroup && ((m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a))
	}), nil
}

func (s *MessageStore) ListGroup(_ context.Context, groupID string, page domain.Page) ([]domain.Message, error) {
	return s.list(page, func(m domain.Message) bool {
		return m.IsGroup && m.RecipientID == groupID
	}), nil
}

func (s *MessageStore) list(page domain.Page, keep func(domain.Message) bool) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page = page.Normalize()
	out := []domain.Message{}
	skipped := 0
	for _, m := range s.values() {
		if !keep(m) {
			continue
		}
		if skipped < page.Offset {
			skipped++
			continue
		}
		out = append(out, m)
		if len(out) == page.Limit {
			break
		}
	}
	return out
}

func (s *MessageStore) DeleteBySender(_ context.Context, id, senderID string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok || m.SenderID != senderID {
		return nil, domain.NewError(domain.ErrNotFound, "message not found")
	}
	delete(s.rows, id)
	return &m, nil
}
