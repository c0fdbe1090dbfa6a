package services

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

// MaxNearbyStories caps a nearby story search.
const MaxNearbyStories = 50

type StoryService struct {
	stories repository.StoryRepository
	friends repository.FriendRepository
	vis     *Visibility
	media   MediaStore
	notifier

	// Now is the clock expiry is evaluated against.
	Now func() time.Time
}

func NewStoryService(stories repository.StoryRepository, friends repository.FriendRepository, vis *Visibility, media MediaStore, pub events.Publisher, log *zap.SugaredLogger) *StoryService {
	return &StoryService{
		stories:  stories,
		friends:  friends,
		vis:      vis,
		media:    media,
		notifier: newNotifier(pub, log),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create posts a story around an externally hosted media reference.
func (s *StoryService) Create(ctx context.Context, id domain.Identity, loc domain.GeoPoint, media domain.Media) (*domain.Story, error) {
	if err := checkExternalMedia(s.media, media); err != nil {
		return nil, err
	}
	return s.create(ctx, id, loc, media)
}

func (s *StoryService) create(ctx context.Context, id domain.Identity, loc domain.GeoPoint, media domain.Media) (*domain.Story, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if err := media.Validate(); err != nil {
		return nil, err
	}
	now := s.Now()
	st := &domain.Story{
		UserID:    id.UserID,
		Location:  loc,
		Media:     media,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.StoryTTL),
	}
	if err := s.stories.Create(ctx, st); err != nil {
		return nil, err
	}
	s.emit(ctx, events.StoryCreated, id.UserID, st.ID, st)
	return st, nil
}

// CreateUpload stores the upload and creates a story around it, releasing
// the object if the story cannot be saved.
func (s *StoryService) CreateUpload(ctx context.Context, id domain.Identity, loc domain.GeoPoint, up Upload) (*domain.Story, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if err := s.media.Validate(up.ContentType, len(up.Data)); err != nil {
		return nil, err
	}
	m, err := s.media.Put(ctx, id.UserID, up.Data, up.ContentType)
	if err != nil {
		return nil, err
	}
	st, err := s.create(ctx, id, loc, m)
	if err != nil {
		s.release(ctx, s.media, m)
		return nil, err
	}
	return st, nil
}

// ListFriendsStories returns the active stories of the caller's friends,
// latest expiry first.
func (s *StoryService) ListFriendsStories(ctx context.Context, id domain.Identity) ([]domain.Story, error) {
	ids, err := s.friends.FriendIDs(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	owners := ids[:0]
	for _, fid := range ids {
		if fid != id.UserID {
			owners = append(owners, fid)
		}
	}
	if len(owners) == 0 {
		return []domain.Story{}, nil
	}
	return s.stories.ListActiveByOwners(ctx, owners, s.Now())
}

// ListNearby finds active stories within radius meters of the point, nearest
// first. A zero radius uses the default.
func (s *StoryService) ListNearby(ctx context.Context, _ domain.Identity, lon, lat, radius float64) ([]domain.NearbyStory, error) {
	center := domain.NewPoint(lon, lat)
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, domain.NewError(domain.ErrValidation, "radius must be positive")
	}
	q := geo.Query{Center: center, MaxDistance: radius, Limit: MaxNearbyStories}
	return s.stories.Near(ctx, q, s.Now())
}

func (s *StoryService) GetByID(ctx context.Context, id domain.Identity, storyID string) (*domain.Story, error) {
	st, err := s.stories.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	ok, err := s.vis.CanViewStory(ctx, id.UserID, *st, s.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "story not found")
	}
	return st, nil
}

// Delete removes one of the caller's stories, expired or not. Media stored
// for the caller is released first so a failed release leaves the story in
// place.
func (s *StoryService) Delete(ctx context.Context, id domain.Identity, storyID string) error {
	st, err := s.stories.FindByOwner(ctx, storyID, id.UserID)
	if err != nil {
		return err
	}
	if err := releaseOwned(ctx, s.media, id.UserID, st.Media); err != nil {
		return err
	}
	if _, err := s.stories.DeleteByOwner(ctx, storyID, id.UserID); err != nil {
		return err
	}
	s.emit(ctx, events.StoryDeleted, id.UserID, storyID, nil)
	return nil
}
