package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

func TestAreFriendsIsSymmetric(t *testing.T) {
	cases := []struct {
		name   string
		edges  []domain.FriendEdge
		expect bool
	}{
		{name: "no edge"},
		{name: "pending", edges: []domain.FriendEdge{{UserID: "a", FriendID: "b", Status: domain.FriendPending}}},
		{name: "accepted forward", edges: []domain.FriendEdge{{UserID: "a", FriendID: "b", Status: domain.FriendAccepted}}, expect: true},
		{name: "accepted reverse", edges: []domain.FriendEdge{{UserID: "b", FriendID: "a", Status: domain.FriendAccepted}}, expect: true},
		{name: "other pair", edges: []domain.FriendEdge{{UserID: "a", FriendID: "c", Status: domain.FriendAccepted}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := AreFriends(tc.edges, "a", "b")
			ba := AreFriends(tc.edges, "b", "a")
			if ab != ba {
				t.Fatalf("expected symmetric result, got ab=%v ba=%v", ab, ba)
			}
			if ab != tc.expect {
				t.Fatalf("expected %v got %v", tc.expect, ab)
			}
		})
	}
}

func TestCanViewStory(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	active := domain.Story{UserID: "owner", ExpiresAt: now.Add(time.Hour)}
	expired := domain.Story{UserID: "owner", ExpiresAt: now.Add(-time.Second)}

	cases := []struct {
		name    string
		viewer  string
		story   domain.Story
		friends bool
		expect  bool
	}{
		{"owner sees expired", "owner", expired, false, true},
		{"friend sees expired", "friend", expired, true, true},
		{"stranger sees active", "stranger", active, false, true},
		{"stranger blocked on expired", "stranger", expired, false, false},
		{"expiry boundary is still visible", "stranger", domain.Story{UserID: "owner", ExpiresAt: now}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewStory(tc.viewer, tc.story, tc.friends, now); got != tc.expect {
				t.Fatalf("expected %v got %v", tc.expect, got)
			}
		})
	}
}

func TestCanMessageDirect(t *testing.T) {
	if CanMessageDirect("a", "a", true) {
		t.Fatal("expected self messaging to be refused")
	}
	if CanMessageDirect("a", "b", false) {
		t.Fatal("expected non friends to be refused")
	}
	if !CanMessageDirect("a", "b", true) {
		t.Fatal("expected friends to be allowed")
	}
}

func TestRemovalCheck(t *testing.T) {
	g := domain.Group{CreatorID: "u1", Members: []string{"u1", "u2", "u3"}}
	solo := domain.Group{CreatorID: "u1", Members: []string{"u1"}}

	cases := []struct {
		name   string
		actor  string
		member string
		group  domain.Group
		kind   error
	}{
		{"creator removes member", "u1", "u2", g, nil},
		{"member leaves", "u2", "u2", g, nil},
		{"member removes other", "u2", "u3", g, domain.ErrForbidden},
		{"member removes creator", "u2", "u1", g, domain.ErrForbidden},
		{"creator removes self", "u1", "u1", g, domain.ErrValidation},
		{"last member", "u1", "u1", solo, domain.ErrValidation},
		{"outsider", "u9", "u2", g, domain.ErrNotFound},
		{"unknown member", "u1", "u9", g, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RemovalCheck(tc.actor, tc.member, tc.group)
			if tc.kind == nil {
				if err != nil {
					t.Fatalf("expected no error got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v got %v", tc.kind, err)
			}
		})
	}
}
