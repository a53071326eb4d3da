package messages

import (
	"context"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/sup/internal/components/auth"
	"github.com/andrasnagy-data/sup/internal/components/users"
)

type fixture struct {
	users    *fakeUsers
	messages *fakeMessages
	handler  http.Handler
	alice    bson.ObjectID
	bob      bson.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userRepo := newFakeUsers()
	msgRepo := &fakeMessages{}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	alice := bson.NewObjectID()
	bob := bson.NewObjectID()
	userRepo.add(users.User{ID: alice, Username: "alice", PasswordHash: string(hash)})
	userRepo.add(users.User{ID: bob, Username: "bob", PasswordHash: string(hash)})

	authenticate := auth.NewMiddleware(auth.NewService(users.NewCredentialSource(userRepo)))
	handler := NewRouter(NewService(msgRepo, userRepo), authenticate)

	return &fixture{users: userRepo, messages: msgRepo, handler: handler, alice: alice, bob: bob}
}

func TestCreateMessage(t *testing.T) {
	f := newFixture(t)

	result := apitest.Handler(f.handler).
		Post("/").
		JSON(`{"text": "hi", "to": "` + f.bob.Hex() + `", "from": "` + f.alice.Hex() + `"}`).
		Expect(t).
		Status(http.StatusCreated).
		Body(`{}`).
		End()

	location := result.Response.Header.Get("Location")
	require.Regexp(t, `^/messages/[0-9a-f]{24}$`, location)

	// The Location header points at a retrievable resource
	apitest.Handler(f.handler).
		Get(location[len("/messages"):]).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.text`, "hi")).
		Assert(jsonpath.Equal(`$.from.username`, "alice")).
		Assert(jsonpath.Equal(`$.to.username`, "bob")).
		End()
}

func TestCreateMessageValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing text", `{"to": "` + f.bob.Hex() + `", "from": "` + f.alice.Hex() + `"}`, "Missing field: text"},
		{"non-string text", `{"text": 1, "to": "` + f.bob.Hex() + `", "from": "` + f.alice.Hex() + `"}`, "Incorrect field type: text"},
		{"missing to", `{"text": "hi", "from": "` + f.alice.Hex() + `"}`, "Incorrect field type: to"},
		{"non-string from", `{"text": "hi", "to": "` + f.bob.Hex() + `", "from": 7}`, "Incorrect field type: from"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apitest.Handler(f.handler).
				Post("/").
				JSON(tc.body).
				Expect(t).
				Status(http.StatusUnprocessableEntity).
				Assert(jsonpath.Equal(`$.message`, tc.message)).
				End()
		})
	}

	require.Empty(t, f.messages.messages)
}

func TestCreateMessageUnknownRecipient(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Post("/").
		JSON(`{"text": "hi", "to": "` + bson.NewObjectID().Hex() + `", "from": "` + f.alice.Hex() + `"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal(`$.message`, "Incorrect field value: to")).
		End()

	require.Empty(t, f.messages.messages)
}

func TestCreateMessageChecksRecipientFirst(t *testing.T) {
	f := newFixture(t)

	// Both references unknown: the recipient check short-circuits
	apitest.Handler(f.handler).
		Post("/").
		JSON(`{"text": "hi", "to": "` + bson.NewObjectID().Hex() + `", "from": "` + bson.NewObjectID().Hex() + `"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal(`$.message`, "Incorrect field value: to")).
		End()
}

func TestCreateMessageUnknownSender(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Post("/").
		JSON(`{"text": "hi", "to": "` + f.bob.Hex() + `", "from": "` + bson.NewObjectID().Hex() + `"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal(`$.message`, "Incorrect field value: from")).
		End()
}

func TestGetMessageNotFound(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Get("/"+bson.NewObjectID().Hex()).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal(`$.message`, "Message not found")).
		End()
}

func TestGetMessageOrphanedReference(t *testing.T) {
	f := newFixture(t)

	id, err := f.messages.Create(context.Background(), Message{Text: "hi", To: f.bob, From: f.alice})
	require.NoError(t, err)

	// Sender deleted after the message was created
	_, err = f.users.Delete(context.Background(), f.alice)
	require.NoError(t, err)

	apitest.Handler(f.handler).
		Get("/"+id.Hex()).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.text`, "hi")).
		Assert(jsonpath.Equal(`$.to.username`, "bob")).
		End()
}

func TestListMessagesRequiresAuth(t *testing.T) {
	f := newFixture(t)

	result := apitest.Handler(f.handler).
		Get("/").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	require.Equal(t, `Basic realm="sup"`, result.Response.Header.Get("WWW-Authenticate"))
}

func TestListMessagesFilters(t *testing.T) {
	f := newFixture(t)

	_, err := f.messages.Create(context.Background(), Message{Text: "hi bob", To: f.bob, From: f.alice})
	require.NoError(t, err)
	_, err = f.messages.Create(context.Background(), Message{Text: "hi alice", To: f.alice, From: f.bob})
	require.NoError(t, err)

	apitest.Handler(f.handler).
		Get("/").
		Query("to", f.bob.Hex()).
		BasicAuth("alice", "secret1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		Assert(jsonpath.Equal(`$[0].text`, "hi bob")).
		Assert(jsonpath.Equal(`$[0].to.username`, "bob")).
		Assert(jsonpath.Equal(`$[0].from.username`, "alice")).
		End()
}

func TestListMessagesQueryError(t *testing.T) {
	f := newFixture(t)
	f.messages.err = errDatabase

	// Query failures surface as 500 instead of an empty 200
	apitest.Handler(f.handler).
		Get("/").
		BasicAuth("alice", "secret1").
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal(`$.message`, "Internal server error")).
		End()
}
