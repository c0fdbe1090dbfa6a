package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection    = "users"
	friendsCollection  = "friends"
	groupsCollection   = "groups"
	messagesCollection = "messages"
	storiesCollection  = "stories"
)

// Connect dials MongoDB and retries the initial ping with exponential
// backoff until maxElapsed.
func Connect(ctx context.Context, uri string, maxElapsed time.Duration, log *zap.SugaredLogger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pctx, readpref.Primary())
	}
	notify := func(err error, wait time.Duration) {
		log.Warnw("mongo not ready, retrying", "err", err, "wait", wait)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NewMongoStores builds every repository on db and ensures their indexes.
func NewMongoStores(ctx context.Context, db *mongo.Database) (*Stores, error) {
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}
	return &Stores{
		Users:    NewUserRepo(db.Collection(usersCollection)),
		Friends:  NewFriendRepo(db.Collection(friendsCollection)),
		Groups:   NewGroupRepo(db.Collection(groupsCollection)),
		Messages: NewMessageRepo(db.Collection(messagesCollection)),
		Stories:  NewStoryRepo(db.Collection(storiesCollection)),
	}, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetSparse(true)},
		},
		friendsCollection: {
			{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "friend_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		groupsCollection: {
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "recipient_id", Value: 1}, {Key: "is_group", Value: 1}}},
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_group", Value: 1}, {Key: "_id", Value: -1}}},
		},
		storiesCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "expires_at", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// newID returns a hex ObjectID. Hex ids sort in creation order, which the
// newest-first listings rely on.
func newID() string {
	return primitive.NewObjectID().Hex()
}
