package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/andrasnagy-data/sup/internal/components/auth"
)

type (
	// Repoer is the persistence contract for user records. Lookup methods
	// return (nil, nil) when no record matches.
	Repoer interface {
		Create(ctx context.Context, username, passwordHash string) (bson.ObjectID, error)
		List(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id bson.ObjectID) (*User, error)
		FindByUsername(ctx context.Context, username string) (*User, error)
		Upsert(ctx context.Context, id bson.ObjectID, username, passwordHash string) error
		Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	}

	repo struct {
		users *mongo.Collection
	}
)

func NewRepo(db *mongo.Database) Repoer {
	return &repo{users: db.Collection("users")}
}

func (r *repo) Create(ctx context.Context, username, passwordHash string) (bson.ObjectID, error) {
	res, err := r.users.InsertOne(ctx, User{
		ID:           bson.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return bson.ObjectID{}, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, errors.New("unexpected inserted id type")
	}
	return id, nil
}

func (r *repo) List(ctx context.Context) ([]User, error) {
	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var out []User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) GetByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *repo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert replaces username and password hash for the given id, creating the
// record if it does not exist yet.
func (r *repo) Upsert(ctx context.Context, id bson.ObjectID, username, passwordHash string) error {
	_, err := r.users.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"username": username, "password": passwordHash}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *repo) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

type credentialSource struct {
	repo Repoer
}

// NewCredentialSource adapts the user repository to the auth component's
// credential lookup.
func NewCredentialSource(repo Repoer) auth.CredentialSource {
	return &credentialSource{repo: repo}
}

func (s *credentialSource) Credentials(ctx context.Context, username string) (*auth.Credentials, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	return &auth.Credentials{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
	}, nil
}
