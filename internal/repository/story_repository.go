package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoryRepo struct {
	col *mongo.Collection
}

func NewStoryRepo(col *mongo.Collection) *StoryRepo {
	return &StoryRepo{col: col}
}

func (r *StoryRepo) Create(ctx context.Context, s *domain.Story) error {
	if s.ID == "" {
		s.ID = newID()
	}
	_, err := r.col.InsertOne(ctx, s)
	return translate(err, "story")
}

func (r *StoryRepo) FindByID(ctx context.Context, id string) (*domain.Story, error) {
	var s domain.Story
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, translate(err, "story")
	}
	return &s, nil
}

func (r *StoryRepo) FindByOwner(ctx context.Context, id, ownerID string) (*domain.Story, error) {
	var s domain.Story
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&s); err != nil {
		return nil, translate(err, "story")
	}
	return &s, nil
}

func (r *StoryRepo) ListActiveByOwners(ctx context.Context, owners []string, now time.Time) ([]domain.Story, error) {
	if len(owners) == 0 {
		return []domain.Story{}, nil
	}
	filter := bson.M{
		"user_id":    bson.M{"$in": owners},
		"expires_at": bson.M{"$gte": now},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "expires_at", Value: -1}}))
	if err != nil {
		return nil, translate(err, "story")
	}
	out := []domain.Story{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "story")
	}
	return out, nil
}

func (r *StoryRepo) Near(ctx context.Context, q geo.Query, now time.Time) ([]domain.NearbyStory, error) {
	q.Filter = bson.M{"expires_at": bson.M{"$gte": now}}
	q.Sort = bson.D{{Key: "expires_at", Value: -1}}
	cur, err := r.col.Aggregate(ctx, q.Pipeline("location"))
	if err != nil {
		return nil, translate(err, "story")
	}
	out := []domain.NearbyStory{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "story")
	}
	return out, nil
}

func (r *StoryRepo) DeleteByOwner(ctx context.Context, id, ownerID string) (*domain.Story, error) {
	var s domain.Story
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&s); err != nil {
		return nil, translate(err, "story")
	}
	return &s, nil
}
