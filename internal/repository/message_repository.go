package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(col *mongo.Collection) *MessageRepo {
	return &MessageRepo{col: col}
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, m)
	return translate(err, "message")
}

func (r *MessageRepo) FindBySender(ctx context.Context, id, senderID string) (*domain.Message, error) {
	var m domain.Message
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "sender_id": senderID}).Decode(&m); err != nil {
		return nil, translate(err, "message")
	}
	return &m, nil
}

func (r *MessageRepo) ListDirect(ctx context.Context, a, b string, page domain.Page) ([]domain.Message, error) {
	filter := bson.M{
		"is_group": false,
		"$or": bson.A{
			bson.M{"sender_id": a, "recipient_id": b},
			bson.M{"sender_id": b, "recipient_id": a},
		},
	}
	return r.list(ctx, filter, page)
}

func (r *MessageRepo) ListGroup(ctx context.Context, groupID string, page domain.Page) ([]domain.Message, error) {
	return r.list(ctx, bson.M{"is_group": true, "recipient_id": groupID}, page)
}

func (r *MessageRepo) list(ctx context.Context, filter bson.M, page domain.Page) ([]domain.Message, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(page.Limit)).
		SetSkip(int64(page.Offset))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "message")
	}
	out := []domain.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "message")
	}
	return out, nil
}

func (r *MessageRepo) DeleteBySender(ctx context.Context, id, senderID string) (*domain.Message, error) {
	var m domain.Message
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "sender_id": senderID}).Decode(&m); err != nil {
		return nil, translate(err, "message")
	}
	return &m, nil
}
