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

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(col *mongo.Collection) *UserRepo {
	return &UserRepo{col: col}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = newID()
	}
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, u)
	return translate(err, "user")
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) FindByLogin(ctx context.Context, credential string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": credential},
		bson.M{"email": credential},
	}})
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepo) find(ctx context.Context, filter bson.M) ([]domain.User, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, translate(err, "user")
	}
	out := []domain.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "user")
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *UserRepo) SetLocation(ctx context.Context, id string, p domain.GeoPoint) (*domain.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"location": p, "updated_at": time.Now().UTC()})
}

func (r *UserRepo) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, "user")
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	return nil
}

func (r *UserRepo) Near(ctx context.Context, q geo.Query) ([]domain.NearbyUser, error) {
	q.Sort = bson.D{{Key: "username", Value: 1}}
	cur, err := r.col.Aggregate(ctx, q.Pipeline("location"))
	if err != nil {
		return nil, translate(err, "user")
	}
	out := []domain.NearbyUser{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "user")
	}
	return out, nil
}
