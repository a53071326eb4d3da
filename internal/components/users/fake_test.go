package users

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeRepo is an in-memory Repoer used by the package tests.
type fakeRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]User
	err   error // when set, every operation fails with it
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[bson.ObjectID]User)}
}

func (f *fakeRepo) Create(_ context.Context, username, passwordHash string) (bson.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return bson.ObjectID{}, f.err
	}
	id := bson.NewObjectID()
	f.users[id] = User{ID: id, Username: username, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeRepo) List(_ context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id bson.ObjectID) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Upsert(_ context.Context, id bson.ObjectID, username, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.users[id] = User{ID: id, Username: username, PasswordHash: passwordHash}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id bson.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.users[id]
	delete(f.users, id)
	return ok, nil
}
