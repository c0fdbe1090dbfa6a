package services

import (
	"context"
	"errors"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

// SocialGraph manages friend edges.
type SocialGraph struct {
	users   repository.UserRepository
	friends repository.FriendRepository
	notifier
}

func NewSocialGraph(users repository.UserRepository, friends repository.FriendRepository, pub events.Publisher, log *zap.SugaredLogger) *SocialGraph {
	return &SocialGraph{users: users, friends: friends, notifier: newNotifier(pub, log)}
}

func (g *SocialGraph) ListFriends(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	ids, err := g.friends.FriendIDs(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return g.users.FindByIDs(ctx, ids)
}

func (g *SocialGraph) ListIncomingRequests(ctx context.Context, id domain.Identity) ([]domain.FriendEdge, error) {
	return g.friends.ListIncoming(ctx, id.UserID)
}

// SendRequest creates a pending edge from the caller to userID. The unique
// pair index makes the store the final arbiter for concurrent requests.
func (g *SocialGraph) SendRequest(ctx context.Context, id domain.Identity, userID string) (*domain.FriendEdge, error) {
	if userID == id.UserID {
		return nil, domain.NewError(domain.ErrSelfReference, "cannot send a friend request to yourself")
	}
	if _, err := g.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	_, err := g.friends.FindBetween(ctx, id.UserID, userID)
	if err == nil {
		return nil, domain.NewError(domain.ErrAlreadyExists, "a friend request already exists between these users")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	e := &domain.FriendEdge{UserID: id.UserID, FriendID: userID, Status: domain.FriendPending}
	if err := g.friends.Create(ctx, e); err != nil {
		return nil, err
	}
	g.emit(ctx, events.FriendRequested, id.UserID, e.ID, e)
	return e, nil
}

// AcceptRequest succeeds only for the recipient of a pending edge.
func (g *SocialGraph) AcceptRequest(ctx context.Context, id domain.Identity, edgeID string) (*domain.FriendEdge, error) {
	e, err := g.friends.Accept(ctx, edgeID, id.UserID)
	if err != nil {
		return nil, err
	}
	g.emit(ctx, events.FriendAccepted, id.UserID, e.ID, e)
	return e, nil
}

// RemoveFriend deletes the edge between the caller and userID in either
// direction, which also cancels a pending request.
func (g *SocialGraph) RemoveFriend(ctx context.Context, id domain.Identity, userID string) error {
	e, err := g.friends.DeleteBetween(ctx, id.UserID, userID)
	if err != nil {
		return err
	}
	g.emit(ctx, events.FriendRemoved, id.UserID, e.ID, e)
	return nil
}

// FindUser looks a user up by email or id, email first.
func (g *SocialGraph) FindUser(ctx context.Context, email, userID string) (*domain.User, error) {
	switch {
	case email != "":
		return g.users.FindByEmail(ctx, email)
	case userID != "":
		return g.users.FindByID(ctx, userID)
	default:
		return nil, domain.NewError(domain.ErrValidation, "email or user_id is required")
	}
}
