package users

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/sup/internal/shared/apperror"
)

type (
	servicer interface {
		Create(ctx context.Context, username, password string) (bson.ObjectID, error)
		List(ctx context.Context) ([]User, error)
		Get(ctx context.Context, id string) (*GetUserOut, error)
		Update(ctx context.Context, id bson.ObjectID, username, password string) error
		Delete(ctx context.Context, id bson.ObjectID) error
	}

	service struct {
		repo Repoer
	}
)

func NewService(repo Repoer) servicer {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, username, password string) (bson.ObjectID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return bson.ObjectID{}, apperror.NewInternal(err)
	}

	id, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return bson.ObjectID{}, apperror.NewInternal(err)
	}
	return id, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if users == nil {
		// An empty collection serializes as [], not null
		users = []User{}
	}
	return users, nil
}

func (s *service) Get(ctx context.Context, id string) (*GetUserOut, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any record
		return nil, apperror.NewNotFound("User not found")
	}

	user, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if user == nil {
		return nil, apperror.NewNotFound("User not found")
	}

	return &GetUserOut{Username: user.Username, ID: user.ID}, nil
}

// Update re-hashes the password and upserts the record. The caller's right to
// touch the record is checked at the router before validation runs.
func (s *service) Update(ctx context.Context, id bson.ObjectID, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if err := s.repo.Upsert(ctx, id, username, string(hash)); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if !deleted {
		return apperror.NewNotFound("User not found")
	}
	return nil
}
