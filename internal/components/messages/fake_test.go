package messages

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/andrasnagy-data/sup/internal/components/users"
)

var errDatabase = errors.New("server selection timeout")

// fakeUsers is an in-memory users.Repoer for wiring the auth middleware and
// reference checks in tests.
type fakeUsers struct {
	mu    sync.Mutex
	users map[bson.ObjectID]users.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[bson.ObjectID]users.User)}
}

func (f *fakeUsers) add(u users.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeUsers) Create(_ context.Context, username, passwordHash string) (bson.ObjectID, error) {
	id := bson.NewObjectID()
	f.add(users.User{ID: id, Username: username, PasswordHash: passwordHash})
	return id, nil
}

func (f *fakeUsers) List(_ context.Context) ([]users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]users.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id bson.ObjectID) (*users.User, error) {
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

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Upsert(_ context.Context, id bson.ObjectID, username, passwordHash string) error {
	f.add(users.User{ID: id, Username: username, PasswordHash: passwordHash})
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id bson.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	delete(f.users, id)
	return ok, nil
}

// fakeMessages is an in-memory repoer with exact-match filtering.
type fakeMessages struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (f *fakeMessages) Create(_ context.Context, msg Message) (bson.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return bson.ObjectID{}, f.err
	}
	msg.ID = bson.NewObjectID()
	f.messages = append(f.messages, msg)
	return msg.ID, nil
}

func (f *fakeMessages) Find(_ context.Context, filter bson.M) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []Message
	for _, msg := range f.messages {
		if matches(msg, filter) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeMessages) GetByID(_ context.Context, id bson.ObjectID) (*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, msg := range f.messages {
		if msg.ID == id {
			return &msg, nil
		}
	}
	return nil, nil
}

func matches(msg Message, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "_id":
			if want != msg.ID {
				return false
			}
		case "text":
			if want != msg.Text {
				return false
			}
		case "from":
			if want != msg.From {
				return false
			}
		case "to":
			if want != msg.To {
				return false
			}
		default:
			return false
		}
	}
	return true
}
