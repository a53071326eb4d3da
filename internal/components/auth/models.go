package auth

import "go.mongodb.org/mongo-driver/v2/bson"

type (
	// Identity is the authenticated user bound to a request
	Identity struct {
		ID       bson.ObjectID
		Username string
	}

	// Credentials is the stored credential record for a username
	Credentials struct {
		ID           bson.ObjectID
		Username     string
		PasswordHash string
	}
)
