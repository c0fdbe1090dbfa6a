package services

import (
	"github.com/fathima-sithara/snapshoot-service/internal/auth"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

// Set is every service wired over one set of stores.
type Set struct {
	Auth     *AuthService
	Users    *UserService
	Graph    *SocialGraph
	Groups   *GroupService
	Messages *MessageService
	Stories  *StoryService
	Location *LocationService
}

func New(stores *repository.Stores, media MediaStore, pub events.Publisher, tokens *auth.TokenManager, log *zap.SugaredLogger) *Set {
	vis := NewVisibility(stores.Friends, stores.Groups)
	return &Set{
		Auth:     NewAuthService(stores.Users, tokens, log),
		Users:    NewUserService(stores.Users),
		Graph:    NewSocialGraph(stores.Users, stores.Friends, pub, log),
		Groups:   NewGroupService(stores.Users, stores.Groups, vis, pub, log),
		Messages: NewMessageService(stores.Messages, vis, media, pub, log),
		Stories:  NewStoryService(stores.Stories, stores.Friends, vis, media, pub, log),
		Location: NewLocationService(stores.Users),
	}
}
