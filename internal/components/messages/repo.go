package messages

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type (
	repoer interface {
		Create(ctx context.Context, msg Message) (bson.ObjectID, error)
		Find(ctx context.Context, filter bson.M) ([]Message, error)
		GetByID(ctx context.Context, id bson.ObjectID) (*Message, error)
	}

	repo struct {
		messages *mongo.Collection
	}
)

func NewRepo(db *mongo.Database) repoer {
	return &repo{messages: db.Collection("messages")}
}

func (r *repo) Create(ctx context.Context, msg Message) (bson.ObjectID, error) {
	msg.ID = bson.NewObjectID()
	res, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return bson.ObjectID{}, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, errors.New("unexpected inserted id type")
	}
	return id, nil
}

func (r *repo) Find(ctx context.Context, filter bson.M) ([]Message, error) {
	cur, err := r.messages.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var out []Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) GetByID(ctx context.Context, id bson.ObjectID) (*Message, error) {
	var msg Message
	err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
