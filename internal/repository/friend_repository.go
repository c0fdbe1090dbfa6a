package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FriendRepo struct {
	col *mongo.Collection
}

func NewFriendRepo(col *mongo.Collection) *FriendRepo {
	return &FriendRepo{col: col}
}

func eitherDirection(a, b string) bson.A {
	return bson.A{
		bson.M{"user_id": a, "friend_id": b},
		bson.M{"user_id": b, "friend_id": a},
	}
}

// Create relies on the unique pair_key index, so concurrent requests for the
// same pair cannot both succeed.
func (r *FriendRepo) Create(ctx context.Context, e *domain.FriendEdge) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = newID()
	}
	e.PairKey = domain.PairKey(e.UserID, e.FriendID)
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return domain.NewError(domain.ErrAlreadyExists, "a friend request already exists between these users")
	}
	return translate(err, "friend request")
}

func (r *FriendRepo) FindBetween(ctx context.Context, a, b string) (*domain.FriendEdge, error) {
	var e domain.FriendEdge
	err := r.col.FindOne(ctx, bson.M{"$or": eitherDirection(a, b)}).Decode(&e)
	if err != nil {
		return nil, translate(err, "friendship")
	}
	return &e, nil
}

func (r *FriendRepo) Accept(ctx context.Context, edgeID, recipientID string) (*domain.FriendEdge, error) {
	filter := bson.M{"_id": edgeID, "friend_id": recipientID, "status": domain.FriendPending}
	update := bson.M{"$set": bson.M{"status": domain.FriendAccepted, "updated_at": time.Now().UTC()}}
	var e domain.FriendEdge
	err := r.col.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&e)
	if err != nil {
		return nil, translate(err, "friend request")
	}
	return &e, nil
}

func (r *FriendRepo) DeleteBetween(ctx context.Context, a, b string) (*domain.FriendEdge, error) {
	var e domain.FriendEdge
	if err := r.col.FindOneAndDelete(ctx, bson.M{"$or": eitherDirection(a, b)}).Decode(&e); err != nil {
		return nil, translate(err, "friendship")
	}
	return &e, nil
}

func (r *FriendRepo) ListIncoming(ctx context.Context, userID string) ([]domain.FriendEdge, error) {
	filter := bson.M{"friend_id": userID, "status": domain.FriendPending}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, translate(err, "friend request")
	}
	out := []domain.FriendEdge{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "friend request")
	}
	return out, nil
}

// FriendIDs resolves the other end of every accepted edge touching userID.
func (r *FriendRepo) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": domain.FriendAccepted,
			"$or":    bson.A{bson.M{"user_id": userID}, bson.M{"friend_id": userID}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id": 0,
			"other": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$user_id", userID}}, "$friend_id", "$user_id",
			}},
		}}},
		{{Key: "$match", Value: bson.M{"other": bson.M{"$ne": userID}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "ids": bson.M{"$addToSet": "$other"}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "friendship")
	}
	var rows []struct {
		IDs []string `bson:"ids"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, "friendship")
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0].IDs, nil
}
