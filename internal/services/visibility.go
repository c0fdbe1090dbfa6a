package services

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/policy"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
)

// Visibility resolves the facts the policy rules need from the stores.
type Visibility struct {
	friends repository.FriendRepository
	groups  repository.GroupRepository
}

func NewVisibility(friends repository.FriendRepository, groups repository.GroupRepository) *Visibility {
	return &Visibility{friends: friends, groups: groups}
}

func (v *Visibility) AreFriends(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, nil
	}
	e, err := v.friends.FindBetween(ctx, a, b)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return policy.AreFriends([]domain.FriendEdge{*e}, a, b), nil
}

// MemberGroup returns the group when userID may view its content.
func (v *Visibility) MemberGroup(ctx context.Context, userID, groupID string) (*domain.Group, error) {
	g, err := v.groups.FindForMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewGroupContent(userID, *g) {
		return nil, domain.NewError(domain.ErrNotFound, "group not found")
	}
	return g, nil
}

func (v *Visibility) CanViewStory(ctx context.Context, viewerID string, s domain.Story, now time.Time) (bool, error) {
	if viewerID == s.UserID {
		return true, nil
	}
	friends, err := v.AreFriends(ctx, viewerID, s.UserID)
	if err != nil {
		return false, err
	}
	return policy.CanViewStory(viewerID, s, friends, now), nil
}

func (v *Visibility) CanMessageDirect(ctx context.Context, senderID, recipientID string) (bool, error) {
	friends, err := v.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return false, err
	}
	return policy.CanMessageDirect(senderID, recipientID, friends), nil
}
