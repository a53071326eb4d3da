package users

import "go.mongodb.org/mongo-driver/v2/bson"

type (
	// User maps to the users collection. List responses serialize the stored
	// record verbatim, hash included, matching the historical API surface;
	// see DESIGN.md before changing the json tags.
	User struct {
		ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
		Username     string        `bson:"username" json:"username"`
		PasswordHash string        `bson:"password" json:"password"`
	}

	GetUserOut struct {
		Username string        `json:"username"`
		ID       bson.ObjectID `json:"id"`
	}
)
