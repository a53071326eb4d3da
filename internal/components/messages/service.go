package messages

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/andrasnagy-data/sup/internal/components/users"
	"github.com/andrasnagy-data/sup/internal/shared/apperror"
)

type (
	servicer interface {
		Create(ctx context.Context, text, to, from string) (bson.ObjectID, error)
		List(ctx context.Context, query url.Values) ([]MessageOut, error)
		Get(ctx context.Context, id string) (*MessageOut, error)
	}

	service struct {
		repo  repoer
		users users.Repoer
	}
)

func NewService(repo repoer, userRepo users.Repoer) servicer {
	return &service{repo: repo, users: userRepo}
}

// Create verifies the recipient and then the sender before persisting; the
// checks are ordered and the first failure wins.
func (s *service) Create(ctx context.Context, text, to, from string) (bson.ObjectID, error) {
	toID, err := s.resolveUser(ctx, "to", to)
	if err != nil {
		return bson.ObjectID{}, err
	}

	fromID, err := s.resolveUser(ctx, "from", from)
	if err != nil {
		return bson.ObjectID{}, err
	}

	id, err := s.repo.Create(ctx, Message{Text: text, To: toID, From: fromID})
	if err != nil {
		return bson.ObjectID{}, apperror.NewInternal(err)
	}
	return id, nil
}

// resolveUser requires the value to reference an existing user. Malformed ids
// are reported the same way as unknown ones.
func (s *service) resolveUser(ctx context.Context, field, value string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(value)
	if err != nil {
		return bson.ObjectID{}, apperror.NewValidation("Incorrect field value: " + field)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return bson.ObjectID{}, apperror.NewInternal(err)
	}
	if user == nil {
		return bson.ObjectID{}, apperror.NewValidation("Incorrect field value: " + field)
	}
	return id, nil
}

// List treats the query parameters as an exact-match filter against stored
// fields and expands from/to references in the result.
func (s *service) List(ctx context.Context, query url.Values) ([]MessageOut, error) {
	filter := bson.M{}
	for key, vals := range query {
		if len(vals) == 0 {
			continue
		}
		val := vals[0]
		switch key {
		case "id":
			key = "_id"
			fallthrough
		case "from", "to", "_id":
			// Reference fields are stored as ObjectIDs; an unparseable value
			// stays a string and simply matches nothing
			if oid, err := bson.ObjectIDFromHex(val); err == nil {
				filter[key] = oid
				continue
			}
			filter[key] = val
		default:
			filter[key] = val
		}
	}

	msgs, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return s.expandAll(ctx, msgs)
}

func (s *service) Get(ctx context.Context, id string) (*MessageOut, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("Message not found")
	}

	msg, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if msg == nil {
		return nil, apperror.NewNotFound("Message not found")
	}

	out, err := s.expand(ctx, *msg, map[bson.ObjectID]*users.User{})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) expandAll(ctx context.Context, msgs []Message) ([]MessageOut, error) {
	out := make([]MessageOut, 0, len(msgs))
	cache := map[bson.ObjectID]*users.User{}
	for _, msg := range msgs {
		expanded, err := s.expand(ctx, msg, cache)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// expand fetches the referenced users and merges them into the response
// structure. A reference that no longer resolves (user deleted after the
// message was created) stays nil.
func (s *service) expand(ctx context.Context, msg Message, cache map[bson.ObjectID]*users.User) (MessageOut, error) {
	from, err := s.lookupUser(ctx, msg.From, cache)
	if err != nil {
		return MessageOut{}, err
	}
	to, err := s.lookupUser(ctx, msg.To, cache)
	if err != nil {
		return MessageOut{}, err
	}

	return MessageOut{
		ID:   msg.ID,
		Text: msg.Text,
		From: from,
		To:   to,
	}, nil
}

func (s *service) lookupUser(ctx context.Context, id bson.ObjectID, cache map[bson.ObjectID]*users.User) (*users.User, error) {
	if user, ok := cache[id]; ok {
		return user, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	cache[id] = user
	return user, nil
}
