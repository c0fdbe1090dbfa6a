// Package policy holds the pure visibility rules. Callers resolve the facts
// (friendship, membership, clock) and pass them in.
package policy

import (
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

// AreFriends reports whether edges contain an accepted edge between a and b
// in either direction.
func AreFriends(edges []domain.FriendEdge, a, b string) bool {
	for _, e := range edges {
		if e.Status == domain.FriendAccepted && e.Connects(a, b) {
			return true
		}
	}
	return false
}

func CanViewGroupContent(userID string, g domain.Group) bool {
	return g.HasMember(userID)
}

// CanViewStory allows the owner, friends of the owner, and anyone while the
// story is still active.
func CanViewStory(viewerID string, s domain.Story, friends bool, now time.Time) bool {
	if viewerID == s.UserID || friends {
		return true
	}
	return s.Active(now)
}

func CanMessageDirect(senderID, recipientID string, friends bool) bool {
	return senderID != recipientID && friends
}

func CanMessageGroup(senderID string, g domain.Group) bool {
	return CanViewGroupContent(senderID, g)
}

// CanManageGroup is true for the creator only: rename, add members, delete.
func CanManageGroup(userID string, g domain.Group) bool {
	return g.CreatorID == userID
}

// RemovalCheck validates removing member from g on behalf of actor.
func RemovalCheck(actorID, memberID string, g domain.Group) error {
	if !g.HasMember(actorID) {
		return domain.NewError(domain.ErrNotFound, "group not found")
	}
	if !g.HasMember(memberID) {
		return domain.NewError(domain.ErrNotFound, "member not found in group")
	}
	if actorID != g.CreatorID && actorID != memberID {
		return domain.NewError(domain.ErrForbidden, "only the creator can remove other members")
	}
	if len(g.Members) <= 1 {
		return domain.NewError(domain.ErrValidation, "cannot remove the last member of a group")
	}
	if memberID == g.CreatorID {
		return domain.NewError(domain.ErrValidation, "the group creator cannot be removed")
	}
	return nil
}
