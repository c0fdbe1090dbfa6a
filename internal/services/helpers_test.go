package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/auth"
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"github.com/fathima-sithara/snapshoot-service/internal/repository/memory"
	"github.com/fathima-sithara/snapshoot-service/internal/storage"
	"go.uber.org/zap"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) has(typ string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

type fixture struct {
	stores   *repository.Stores
	media    *storage.MemoryStore
	events   *recorder
	graph    *SocialGraph
	groups   *GroupService
	messages *MessageService
	stories  *StoryService
	location *LocationService
	users    *UserService
	auth     *AuthService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop().Sugar()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		stores: memory.NewStores(),
		media:  storage.NewMemoryStore("memory://snapshoot-media"),
		events: &recorder{},
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	vis := NewVisibility(f.stores.Friends, f.stores.Groups)
	f.graph = NewSocialGraph(f.stores.Users, f.stores.Friends, f.events, log)
	f.groups = NewGroupService(f.stores.Users, f.stores.Groups, vis, f.events, log)
	f.messages = NewMessageService(f.stores.Messages, vis, f.media, f.events, log)
	f.stories = NewStoryService(f.stores.Stories, f.stores.Friends, vis, f.media, f.events, log)
	f.stories.Now = func() time.Time { return f.now }
	f.location = NewLocationService(f.stores.Users)
	f.users = NewUserService(f.stores.Users)
	f.auth = NewAuthService(f.stores.Users, tokens, log)
	f.auth.FailureDelay = 0
	return f
}

// user stores a user without hashing a password.
func (f *fixture) user(t *testing.T, name string) domain.Identity {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: domain.RoleUser}
	if err := f.stores.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return domain.Identity{UserID: u.ID, Role: u.Role}
}

func (f *fixture) befriend(t *testing.T, a, b domain.Identity) {
	t.Helper()
	ctx := context.Background()
	e, err := f.graph.SendRequest(ctx, a, b.UserID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := f.graph.AcceptRequest(ctx, b, e.ID); err != nil {
		t.Fatalf("accept request: %v", err)
	}
}

// external is a media reference hosted outside the media store.
func external() domain.Media {
	return domain.Media{Type: domain.MediaImage, URL: "https://cdn.example/photo.jpg"}
}

func photo() Upload {
	return Upload{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v got %v", kind, err)
	}
}
