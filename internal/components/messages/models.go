package messages

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/andrasnagy-data/sup/internal/components/users"
)

type (
	// Message maps to the messages collection. Sender and recipient are
	// stored as user ids; responses expand them into user documents.
	Message struct {
		ID   bson.ObjectID `bson:"_id,omitempty"`
		Text string        `bson:"text"`
		From bson.ObjectID `bson:"from"`
		To   bson.ObjectID `bson:"to"`
	}

	// MessageOut is the response shape with from/to expanded. A referenced
	// user deleted after the message was created serializes as null.
	MessageOut struct {
		ID   bson.ObjectID `json:"id"`
		Text string        `json:"text"`
		From *users.User   `json:"from"`
		To   *users.User   `json:"to"`
	}
)
