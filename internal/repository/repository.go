package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByLogin matches credential against username or email.
	FindByLogin(ctx context.Context, credential string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	SetLocation(ctx context.Context, id string, p domain.GeoPoint) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Near(ctx context.Context, q geo.Query) ([]domain.NearbyUser, error)
}

type FriendRepository interface {
	// Create fails with domain.ErrAlreadyExists when any edge joins the pair.
	Create(ctx context.Context, e *domain.FriendEdge) error
	FindBetween(ctx context.Context, a, b string) (*domain.FriendEdge, error)
	// Accept moves a pending edge addressed to recipientID to accepted.
	Accept(ctx context.Context, edgeID, recipientID string) (*domain.FriendEdge, error)
	DeleteBetween(ctx context.Context, a, b string) (*domain.FriendEdge, error)
	ListIncoming(ctx context.Context, userID string) ([]domain.FriendEdge, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) error
	FindForMember(ctx context.Context, groupID, userID string) (*domain.Group, error)
	ListForMember(ctx context.Context, userID string) ([]domain.Group, error)
	Rename(ctx context.Context, groupID, creatorID, name string) (*domain.Group, error)
	AddMembers(ctx context.Context, groupID, creatorID string, members []string) (*domain.Group, error)
	// RemoveMember pulls memberID unless it is the creator or the last member.
	RemoveMember(ctx context.Context, groupID, memberID string) (*domain.Group, error)
	Delete(ctx context.Context, groupID, creatorID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	FindBySender(ctx context.Context, id, senderID string) (*domain.Message, error)
	// ListDirect returns the conversation between a and b newest first.
	ListDirect(ctx context.Context, a, b string, page domain.Page) ([]domain.Message, error)
	ListGroup(ctx context.Context, groupID string, page domain.Page) ([]domain.Message, error)
	DeleteBySender(ctx context.Context, id, senderID string) (*domain.Message, error)
}

type StoryRepository interface {
	Create(ctx context.Context, s *domain.Story) error
	FindByID(ctx context.Context, id string) (*domain.Story, error)
	FindByOwner(ctx context.Context, id, ownerID string) (*domain.Story, error)
	// ListActiveByOwners returns stories of owners still active at now, latest expiry first.
	ListActiveByOwners(ctx context.Context, owners []string, now time.Time) ([]domain.Story, error)
	// Near applies q to stories still active at now.
	Near(ctx context.Context, q geo.Query, now time.Time) ([]domain.NearbyStory, error)
	DeleteByOwner(ctx context.Context, id, ownerID string) (*domain.Story, error)
}

// Stores bundles one implementation of every repository.
type Stores struct {
	Users    UserRepository
	Friends  FriendRepository
	Groups   GroupRepository
	Messages MessageRepository
	Stories  StoryRepository
}

var (
	_ UserRepository    = (*UserRepo)(nil)
	_ FriendRepository  = (*FriendRepo)(nil)
	_ GroupRepository   = (*GroupRepo)(nil)
	_ MessageRepository = (*MessageRepo)(nil)
	_ StoryRepository   = (*StoryRepo)(nil)
)
