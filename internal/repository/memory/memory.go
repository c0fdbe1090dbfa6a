// Package memory provides in-process implementations of the repositories.
// They back the "memory" store driver and the service tests.
package memory

import (
	"sort"
	"sync"

	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() string { return primitive.NewObjectID().Hex() }

// NewStores returns an empty set of in-memory repositories.
func NewStores() *repository.Stores {
	return &repository.Stores{
		Users:    NewUserStore(),
		Friends:  NewFriendStore(),
		Groups:   NewGroupStore(),
		Messages: NewMessageStore(),
		Stories:  NewStoryStore(),
	}
}

// table is a mutex guarded map keyed by id.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func (t *table[T]) init() {
	t.rows = make(map[string]T)
}

// values returns rows ordered by id descending, i.e. newest first.
func (t *table[T]) values() []T {
	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

var (
	_ repository.UserRepository    = (*UserStore)(nil)
	_ repository.FriendRepository  = (*FriendStore)(nil)
	_ repository.GroupRepository   = (*GroupStore)(nil)
	_ repository.MessageRepository = (*MessageStore)(nil)
	_ repository.StoryRepository   = (*StoryStore)(nil)
)
