package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
)

func TestFriendStoreRejectsReversePair(t *testing.T) {
	ctx := context.Background()
	s := NewFriendStore()
	if err := s.Create(ctx, &domain.FriendEdge{UserID: "a", FriendID: "b", Status: domain.FriendPending}); err != nil {
		t.Fatalf("expected create to succeed got %v", err)
	}
	err := s.Create(ctx, &domain.FriendEdge{UserID: "b", FriendID: "a", Status: domain.FriendPending})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists got %v", err)
	}
}

func TestFriendStoreAcceptOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := NewFriendStore()
	e := &domain.FriendEdge{UserID: "a", FriendID: "b", Status: domain.FriendPending}
	_ = s.Create(ctx, e)

	if _, err := s.Accept(ctx, e.ID, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected requester accept to be not found got %v", err)
	}
	if _, err := s.Accept(ctx, e.ID, "b"); err != nil {
		t.Fatalf("expected accept to succeed got %v", err)
	}
	if _, err := s.Accept(ctx, e.ID, "b"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected second accept to be not found got %v", err)
	}
	ids, _ := s.FriendIDs(ctx, "b")
	if len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("expected [a] got %v", ids)
	}
}

func TestMessageStorePagination(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore()
	for _, c := range []string{"one", "two", "three"} {
		_ = s.Create(ctx, &domain.Message{SenderID: "a", RecipientID: "b", Content: c})
	}
	_ = s.Create(ctx, &domain.Message{SenderID: "a", RecipientID: "g", Content: "group", IsGroup: true})

	got, _ := s.ListDirect(ctx, "b", "a", domain.Page{Limit: 2})
	if len(got) != 2 || got[0].Content != "three" || got[1].Content != "two" {
		t.Fatalf("unexpected first page %+v", got)
	}
	got, _ = s.ListDirect(ctx, "a", "b", domain.Page{Limit: 2, Offset: 2})
	if len(got) != 1 || got[0].Content != "one" {
		t.Fatalf("unexpected second page %+v", got)
	}
}

func TestStoryStoreNearSkipsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewStoryStore()
	_ = s.Create(ctx, &domain.Story{UserID: "u", Location: domain.NewPoint(2.35, 48.85), ExpiresAt: now.Add(time.Hour)})
	_ = s.Create(ctx, &domain.Story{UserID: "u", Location: domain.NewPoint(2.35, 48.85), ExpiresAt: now.Add(-time.Hour)})

	got, _ := s.Near(ctx, geo.Query{Center: domain.NewPoint(2.351, 48.85)}, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 active story got %d", len(got))
	}
}

func TestGroupStoreRemoveGuards(t *testing.T) {
	ctx := context.Background()
	s := NewGroupStore()
	g := &domain.Group{Name: "crew", CreatorID: "u1", Members: []string{"u1", "u2"}}
	_ = s.Create(ctx, g)

	if _, err := s.RemoveMember(ctx, g.ID, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected creator removal to be refused got %v", err)
	}
	got, err := s.RemoveMember(ctx, g.ID, "u2")
	if err != nil {
		t.Fatalf("expected removal to succeed got %v", err)
	}
	if len(got.Members) != 1 || got.Members[0] != "u1" {
		t.Fatalf("expected [u1] got %v", got.Members)
	}
}
