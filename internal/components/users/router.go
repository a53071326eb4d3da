package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andrasnagy-data/sup/internal/components/auth"
	"github.com/andrasnagy-data/sup/internal/shared/apperror"
)

type (
	Router struct {
		service servicer
	}
)

func NewRouter(service servicer, authenticate auth.Middleware) chi.Router {
	router := &Router{service: service}
	return router.Routes(authenticate)
}

func (r *Router) Routes(authenticate auth.Middleware) chi.Router {
	router := chi.NewRouter()

	// Signup stays anonymous
	router.Post("/", r.CreateUser)

	router.Group(func(g chi.Router) {
		g.Use(authenticate)
		g.Get("/", r.ListUsers)
		g.Get("/{id}", r.GetUser)
		g.Put("/{id}", r.UpdateUser)
		g.Delete("/{id}", r.DeleteUser)
	})

	return router
}

func (r *Router) CreateUser(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	body, appErr := decodeBody(req)
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	username, appErr := trimmedField(body, "username")
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	password, appErr := trimmedField(body, "password")
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	id, err := r.service.Create(ctx, username, password)
	if err != nil {
		apperror.Write(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/users/"+id.Hex())
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(struct{}{})
}

func (r *Router) ListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.service.List(req.Context())
	if err != nil {
		apperror.Write(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(users)
}

func (r *Router) GetUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.service.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		apperror.Write(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(user)
}

func (r *Router) UpdateUser(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	// Self-only, checked before validation: touching another identity's
	// record is 401 regardless of payload validity
	identity, ok := auth.FromContext(ctx)
	if !ok || identity.ID.Hex() != chi.URLParam(req, "id") {
		apperror.Write(w, req, apperror.NewAuth("Unauthorized"))
		return
	}

	body, appErr := decodeBody(req)
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	// Update requires presence and type only, no trimming
	username, appErr := stringField(body, "username")
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	password, appErr := stringField(body, "password")
	if appErr != nil {
		apperror.Write(w, req, appErr)
		return
	}

	if err := r.service.Update(ctx, identity.ID, username, password); err != nil {
		apperror.Write(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct{}{})
}

func (r *Router) DeleteUser(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	identity, ok := auth.FromContext(ctx)
	if !ok || identity.ID.Hex() != chi.URLParam(req, "id") {
		apperror.Write(w, req, apperror.NewAuth("Unauthorized"))
		return
	}

	if err := r.service.Delete(ctx, identity.ID); err != nil {
		apperror.Write(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct{}{})
}

func decodeBody(req *http.Request) (map[string]any, *apperror.Error) {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return nil, apperror.NewValidation("Invalid request body")
	}
	return body, nil
}

// stringField requires the field to be present and a string
func stringField(body map[string]any, name string) (string, *apperror.Error) {
	v, ok := body[name]
	if !ok || v == nil {
		return "", apperror.NewValidation("Missing field: " + name)
	}
	s, ok := v.(string)
	if !ok {
		return "", apperror.NewValidation("Incorrect field type: " + name)
	}
	return s, nil
}

// trimmedField additionally rejects values that are empty after trimming
func trimmedField(body map[string]any, name string) (string, *apperror.Error) {
	s, appErr := stringField(body, name)
	if appErr != nil {
		return "", appErr
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperror.NewValidation("Incorrect field length: " + name)
	}
	return s, nil
}
