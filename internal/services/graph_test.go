package services

import (
	"context"
	"testing"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
)

func TestSendRequestRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.graph.SendRequest(ctx, a, a.UserID)
	expectKind(t, err, domain.ErrSelfReference)

	_, err = f.graph.SendRequest(ctx, a, "000000000000000000000000")
	expectKind(t, err, domain.ErrNotFound)

	e, err := f.graph.SendRequest(ctx, a, b.UserID)
	if err != nil {
		t.Fatalf("expected request to succeed got %v", err)
	}
	if e.Status != domain.FriendPending || e.UserID != a.UserID || e.FriendID != b.UserID {
		t.Fatalf("unexpected edge %+v", e)
	}

	_, err = f.graph.SendRequest(ctx, b, a.UserID)
	expectKind(t, err, domain.ErrAlreadyExists)
	_, err = f.graph.SendRequest(ctx, a, b.UserID)
	expectKind(t, err, domain.ErrAlreadyExists)

	if !f.events.has(events.FriendRequested) {
		t.Fatal("expected friend.requested event")
	}
}

func TestAcceptRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	e, _ := f.graph.SendRequest(ctx, a, b.UserID)

	incoming, err := f.graph.ListIncomingRequests(ctx, b)
	if err != nil || len(incoming) != 1 || incoming[0].ID != e.ID {
		t.Fatalf("expected one incoming request got %v (%v)", incoming, err)
	}

	_, err = f.graph.AcceptRequest(ctx, a, e.ID)
	expectKind(t, err, domain.ErrNotFound)

	if _, err := f.graph.AcceptRequest(ctx, b, e.ID); err != nil {
		t.Fatalf("expected accept to succeed got %v", err)
	}
	_, err = f.graph.AcceptRequest(ctx, b, e.ID)
	expectKind(t, err, domain.ErrNotFound)

	incoming, _ = f.graph.ListIncomingRequests(ctx, b)
	if len(incoming) != 0 {
		t.Fatalf("expected no pending requests got %d", len(incoming))
	}
}

func TestFriendsAreSymmetric(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	vis := NewVisibility(f.stores.Friends, f.stores.Groups)

	check := func(stage string, want bool) {
		ab, _ := vis.AreFriends(ctx, a.UserID, b.UserID)
		ba, _ := vis.AreFriends(ctx, b.UserID, a.UserID)
		if ab != ba || ab != want {
			t.Fatalf("%s: expected %v both ways got ab=%v ba=%v", stage, want, ab, ba)
		}
	}
	check("no edge", false)
	e, _ := f.graph.SendRequest(ctx, a, b.UserID)
	check("pending", false)
	_, _ = f.graph.AcceptRequest(ctx, b, e.ID)
	check("accepted", true)

	friends, err := f.graph.ListFriends(ctx, b)
	if err != nil || len(friends) != 1 || friends[0].ID != a.UserID {
		t.Fatalf("expected alice as bob's friend got %v (%v)", friends, err)
	}

	if err := f.graph.RemoveFriend(ctx, b, a.UserID); err != nil {
		t.Fatalf("expected removal to succeed got %v", err)
	}
	check("removed", false)
	expectKind(t, f.graph.RemoveFriend(ctx, a, b.UserID), domain.ErrNotFound)
}

func TestRemoveFriendCancelsPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	_, _ = f.graph.SendRequest(ctx, a, b.UserID)

	if err := f.graph.RemoveFriend(ctx, b, a.UserID); err != nil {
		t.Fatalf("expected recipient to cancel got %v", err)
	}
	if _, err := f.graph.SendRequest(ctx, b, a.UserID); err != nil {
		t.Fatalf("expected a fresh request after cancel got %v", err)
	}
}

func TestFindUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")

	u, err := f.graph.FindUser(ctx, "alice@example.com", "")
	if err != nil || u.ID != a.UserID {
		t.Fatalf("expected alice by email got %v (%v)", u, err)
	}
	u, err = f.graph.FindUser(ctx, "", a.UserID)
	if err != nil || u.Username != "alice" {
		t.Fatalf("expected alice by id got %v (%v)", u, err)
	}
	_, err = f.graph.FindUser(ctx, "", "")
	expectKind(t, err, domain.ErrValidation)
}
