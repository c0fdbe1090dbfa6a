package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GroupRepo struct {
	col *mongo.Collection
}

func NewGroupRepo(col *mongo.Collection) *GroupRepo {
	return &GroupRepo{col: col}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	now := time.Now().UTC()
	if g.ID == "" {
		g.ID = newID()
	}
	g.CreatedAt, g.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, g)
	return translate(err, "group")
}

func (r *GroupRepo) FindForMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	var g domain.Group
	if err := r.col.FindOne(ctx, bson.M{"_id": groupID, "members": userID}).Decode(&g); err != nil {
		return nil, translate(err, "group")
	}
	return &g, nil
}

func (r *GroupRepo) ListForMember(ctx context.Context, userID string) ([]domain.Group, error) {
	cur, err := r.col.Find(ctx, bson.M{"members": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, translate(err, "group")
	}
	out := []domain.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "group")
	}
	return out, nil
}

func (r *GroupRepo) update(ctx context.Context, filter, update bson.M) (*domain.Group, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g domain.Group
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g); err != nil {
		return nil, translate(err, "group")
	}
	return &g, nil
}

func (r *GroupRepo) Rename(ctx context.Context, groupID, creatorID, name string) (*domain.Group, error) {
	return r.update(ctx,
		bson.M{"_id": groupID, "creator_id": creatorID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
	)
}

func (r *GroupRepo) AddMembers(ctx context.Context, groupID, creatorID string, members []string) (*domain.Group, error) {
	return r.update(ctx,
		bson.M{"_id": groupID, "creator_id": creatorID},
		bson.M{
			"$addToSet": bson.M{"members": bson.M{"$each": members}},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
}

// RemoveMember re-asserts the membership guards in the filter so a
// concurrent change cannot leave the group empty or without its creator.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, memberID string) (*domain.Group, error) {
	filter := bson.M{
		"_id":        groupID,
		"members":    memberID,
		"creator_id": bson.M{"$ne": memberID},
		"members.1":  bson.M{"$exists": true},
	}
	return r.update(ctx, filter, bson.M{
		"$pull": bson.M{"members": memberID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *GroupRepo) Delete(ctx context.Context, groupID, creatorID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": groupID, "creator_id": creatorID})
	if err != nil {
		return translate(err, "group")
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.ErrNotFound, "group not found")
	}
	return nil
}
